package dms

import (
	"fmt"
	"sort"
	"strings"
)

// serializeLines renders validated records to the file body: one line per
// record, sorted by key, trailing newline when non-empty. Deterministic
// ordering keeps exports diffable and makes repeated exports byte-identical.
func serializeLines(lines map[string]string) []byte {
	if len(lines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(lines[k])
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// SerializeAccounts renders postfix-accounts.cf. Records that fail validation
// are excluded and reported.
func SerializeAccounts(recs []AccountRecord) ([]byte, []MalformedRecord) {
	lines := make(map[string]string, len(recs))
	var bad []MalformedRecord
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			bad = append(bad, MalformedRecord{Key: r.Email, Reason: err.Error()})
			continue
		}
		lines[r.Key()] = r.Line()
	}
	return serializeLines(lines), bad
}

// SerializeAliases renders postfix-virtual.cf.
func SerializeAliases(recs []AliasRecord) ([]byte, []MalformedRecord) {
	lines := make(map[string]string, len(recs))
	var bad []MalformedRecord
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			bad = append(bad, MalformedRecord{Key: r.Alias, Reason: err.Error()})
			continue
		}
		lines[r.Key()] = r.Line()
	}
	return serializeLines(lines), bad
}

// SerializeQuotas renders dovecot-quotas.cf.
func SerializeQuotas(recs []QuotaRecord) ([]byte, []MalformedRecord) {
	lines := make(map[string]string, len(recs))
	var bad []MalformedRecord
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			bad = append(bad, MalformedRecord{Key: r.Email, Reason: err.Error()})
			continue
		}
		lines[r.Key()] = r.Line()
	}
	return serializeLines(lines), bad
}

// parseFile walks the file body line by line. Blank lines and the trailing
// newline are tolerated. A line that fails parseLine yields a ParseError for
// that line only; the rest of the file still parses.
func parseFile[T any](file string, data []byte, parseLine func(string) (T, error), key func(T) string) ([]T, []ParseError) {
	var (
		recs []T
		errs []ParseError
		seen = map[string]int{}
	)
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			errs = append(errs, ParseError{File: file, LineNo: i + 1, Line: line, Reason: err.Error()})
			continue
		}
		k := key(rec)
		if prev, dup := seen[k]; dup {
			errs = append(errs, ParseError{
				File:   file,
				LineNo: i + 1,
				Line:   line,
				Reason: fmt.Sprintf("duplicate key %s (first at line %d)", k, prev),
			})
			continue
		}
		seen[k] = i + 1
		recs = append(recs, rec)
	}
	return recs, errs
}

// ParseAccounts parses postfix-accounts.cf content.
func ParseAccounts(data []byte) ([]AccountRecord, []ParseError) {
	return parseFile(AccountsFile, data, parseAccountLine, AccountRecord.Key)
}

// ParseAliases parses postfix-virtual.cf content.
func ParseAliases(data []byte) ([]AliasRecord, []ParseError) {
	return parseFile(VirtualFile, data, parseAliasLine, AliasRecord.Key)
}

// ParseQuotas parses dovecot-quotas.cf content.
func ParseQuotas(data []byte) ([]QuotaRecord, []ParseError) {
	return parseFile(QuotasFile, data, parseQuotaLine, QuotaRecord.Key)
}
