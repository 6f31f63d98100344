package dms

import (
	"fmt"
	"strconv"
	"strings"
)

// File names consumed by Docker Mailserver. The formats are mandated by
// postfix and dovecot and must be reproduced byte-exact.
const (
	AccountsFile = "postfix-accounts.cf"
	VirtualFile  = "postfix-virtual.cf"
	QuotasFile   = "dovecot-quotas.cf"
)

// QuotaSuffixes are the size units dovecot accepts, case-sensitive.
const QuotaSuffixes = "BKMGT"

// AccountRecord is one line of postfix-accounts.cf: "email|{SHA512-CRYPT}hash".
type AccountRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

func (r AccountRecord) Key() string { return strings.ToLower(r.Email) }

func (r AccountRecord) Line() string { return r.Key() + "|" + r.PasswordHash }

func (r AccountRecord) Validate() error {
	if err := validateKey(r.Email, "|"); err != nil {
		return err
	}
	if r.PasswordHash == "" {
		return fmt.Errorf("empty password hash")
	}
	if strings.ContainsAny(r.PasswordHash, "\n\r") {
		return fmt.Errorf("password hash contains newline")
	}
	return nil
}

// AliasRecord is one line of postfix-virtual.cf: "alias destination".
// One destination per line; postfix virtual maps get no fan-out syntax here.
type AliasRecord struct {
	Alias       string `json:"alias"`
	Destination string `json:"destination"`
}

func (r AliasRecord) Key() string { return strings.ToLower(r.Alias) }

func (r AliasRecord) Line() string { return r.Key() + " " + strings.ToLower(r.Destination) }

func (r AliasRecord) Validate() error {
	if err := validateKey(r.Alias, " "); err != nil {
		return err
	}
	if r.Destination == "" {
		return fmt.Errorf("empty destination")
	}
	if strings.ContainsAny(r.Destination, " \t\n\r") {
		return fmt.Errorf("destination %q contains whitespace", r.Destination)
	}
	return nil
}

// QuotaRecord is one line of dovecot-quotas.cf: "email:<int><suffix>".
type QuotaRecord struct {
	Email     string `json:"email"`
	SizeValue int64  `json:"size_value"`
	Suffix    string `json:"suffix"`
}

func (r QuotaRecord) Key() string { return strings.ToLower(r.Email) }

func (r QuotaRecord) Line() string {
	return r.Key() + ":" + strconv.FormatInt(r.SizeValue, 10) + r.Suffix
}

func (r QuotaRecord) Validate() error {
	if err := validateKey(r.Email, ":"); err != nil {
		return err
	}
	if r.SizeValue <= 0 {
		return fmt.Errorf("quota size must be positive, got %d", r.SizeValue)
	}
	if len(r.Suffix) != 1 || !strings.Contains(QuotaSuffixes, r.Suffix) {
		return fmt.Errorf("quota suffix %q not one of B, K, M, G, T", r.Suffix)
	}
	return nil
}

// validateKey rejects keys that would corrupt the line format: empty keys,
// embedded newlines, and the file's own field delimiter.
func validateKey(key, delim string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, "\n\r") {
		return fmt.Errorf("key %q contains newline", key)
	}
	if strings.Contains(key, delim) {
		return fmt.Errorf("key %q contains delimiter %q", key, delim)
	}
	return nil
}

func parseAccountLine(line string) (AccountRecord, error) {
	email, hash, ok := strings.Cut(line, "|")
	if !ok {
		return AccountRecord{}, fmt.Errorf("expected \"email|hash\"")
	}
	rec := AccountRecord{Email: email, PasswordHash: hash}
	if err := rec.Validate(); err != nil {
		return AccountRecord{}, err
	}
	return rec, nil
}

func parseAliasLine(line string) (AliasRecord, error) {
	alias, dest, ok := strings.Cut(line, " ")
	if !ok {
		return AliasRecord{}, fmt.Errorf("expected \"alias destination\"")
	}
	rec := AliasRecord{Alias: alias, Destination: dest}
	if err := rec.Validate(); err != nil {
		return AliasRecord{}, err
	}
	return rec, nil
}

func parseQuotaLine(line string) (QuotaRecord, error) {
	email, size, ok := strings.Cut(line, ":")
	if !ok {
		return QuotaRecord{}, fmt.Errorf("expected \"email:<size><suffix>\"")
	}
	if len(size) < 2 {
		return QuotaRecord{}, fmt.Errorf("size %q too short", size)
	}
	value, suffix := size[:len(size)-1], size[len(size)-1:]
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return QuotaRecord{}, fmt.Errorf("size %q is not an integer", value)
	}
	rec := QuotaRecord{Email: email, SizeValue: n, Suffix: suffix}
	if err := rec.Validate(); err != nil {
		return QuotaRecord{}, err
	}
	return rec, nil
}
