package dms

import "fmt"

// MalformedRecord reports a storage record that cannot be serialized without
// corrupting the file format. The record is excluded from the export and the
// exclusion is surfaced in the result, never silent.
type MalformedRecord struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

func (e MalformedRecord) Error() string {
	return fmt.Sprintf("malformed record %q: %s", e.Key, e.Reason)
}

// ParseError reports a single on-disk line that does not match the file's
// grammar. Parsing continues past it; all line errors are collected.
type ParseError struct {
	File   string `json:"file"`
	LineNo int    `json:"line_no"`
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.LineNo, e.Reason)
}

// ConfigurationError means the output directory is missing or unwritable.
// It fails the whole invocation before any file I/O starts.
type ConfigurationError struct {
	Dir string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("output directory %s: %v", e.Dir, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
