// Package dms keeps the mail account database and the flat config files
// consumed by Docker Mailserver (postfix-accounts.cf, postfix-virtual.cf,
// dovecot-quotas.cf) in sync. Export regenerates the files from storage;
// Scan detects drift between the two and optionally repairs it, with storage
// authoritative on conflicts.
package dms

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Store is the narrow data-access surface the synchronizer needs. The
// account-management layer implements it; the synchronizer never reaches
// deeper into the application than this.
type Store interface {
	ListActiveAccounts(ctx context.Context) ([]AccountRecord, error)
	ListAliases(ctx context.Context) ([]AliasRecord, error)
	ListQuotas(ctx context.Context) ([]QuotaRecord, error)

	// Upserts are used only during repair, importing file-side records.
	UpsertAliasFromFile(ctx context.Context, rec AliasRecord) error
	UpsertQuotaFromFile(ctx context.Context, rec QuotaRecord) error

	// RecordDrift surfaces a repair pass's findings to the audit trail.
	RecordDrift(ctx context.Context, report *DriftReport) error
}

type Syncer struct {
	store  Store
	dir    string
	logger zerolog.Logger
}

func NewSyncer(store Store, outputDir string, logger zerolog.Logger) *Syncer {
	return &Syncer{store: store, dir: outputDir, logger: logger}
}

// FileResult is the per-file outcome of an export. Each file's replacement is
// independently atomic; there is no cross-file transaction, so one file can
// fail while the others were already replaced.
type FileResult struct {
	File      string            `json:"file"`
	Records   int               `json:"records"`
	Malformed []MalformedRecord `json:"malformed,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type ExportResult struct {
	Files   []FileResult  `json:"files"`
	Elapsed time.Duration `json:"elapsed"`
}

// Failed reports whether any file failed to be replaced or any record was
// excluded as malformed.
func (r *ExportResult) Failed() bool {
	for _, f := range r.Files {
		if f.Error != "" || len(f.Malformed) > 0 {
			return true
		}
	}
	return false
}

// Export regenerates all three files from storage. Per-file failures are
// collected in the result rather than aborting the pass; only a missing or
// unwritable output directory fails the whole invocation.
func (s *Syncer) Export(ctx context.Context) (*ExportResult, error) {
	start := time.Now()
	if err := checkOutputDir(s.dir); err != nil {
		exportsTotal.WithLabelValues("config_error").Inc()
		return nil, err
	}

	res := &ExportResult{}
	res.Files = append(res.Files, s.exportFile(AccountsFile, func() ([]byte, []MalformedRecord, error) {
		recs, err := s.store.ListActiveAccounts(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list active accounts: %w", err)
		}
		data, bad := SerializeAccounts(recs)
		return data, bad, nil
	}))
	res.Files = append(res.Files, s.exportFile(VirtualFile, func() ([]byte, []MalformedRecord, error) {
		recs, err := s.store.ListAliases(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list aliases: %w", err)
		}
		data, bad := SerializeAliases(recs)
		return data, bad, nil
	}))
	res.Files = append(res.Files, s.exportFile(QuotasFile, func() ([]byte, []MalformedRecord, error) {
		recs, err := s.store.ListQuotas(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list quotas: %w", err)
		}
		data, bad := SerializeQuotas(recs)
		return data, bad, nil
	}))
	res.Elapsed = time.Since(start)

	if res.Failed() {
		exportsTotal.WithLabelValues("failed").Inc()
	} else {
		exportsTotal.WithLabelValues("ok").Inc()
	}
	s.logger.Info().
		Str("dir", s.dir).
		Bool("failed", res.Failed()).
		Dur("elapsed", res.Elapsed).
		Msg("dms export finished")
	return res, nil
}

func (s *Syncer) exportFile(name string, build func() ([]byte, []MalformedRecord, error)) FileResult {
	fr := FileResult{File: name}
	data, bad, err := build()
	if err != nil {
		fr.Error = err.Error()
		exportFileFailures.WithLabelValues(name).Inc()
		s.logger.Error().Str("file", name).Err(err).Msg("dms export: storage read failed")
		return fr
	}
	fr.Malformed = bad
	for _, m := range bad {
		s.logger.Warn().Str("file", name).Str("key", m.Key).Str("reason", m.Reason).
			Msg("dms export: record excluded")
	}
	if err := writeFileAtomic(filepath.Join(s.dir, name), data); err != nil {
		fr.Error = err.Error()
		exportFileFailures.WithLabelValues(name).Inc()
		s.logger.Error().Str("file", name).Err(err).Msg("dms export: write failed")
		return fr
	}
	fr.Records = countLines(data)
	return fr
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}

// FileDrift is the per-file portion of a DriftReport. For the accounts file,
// file-only lines land in Orphans instead of being imported: a password hash
// alone is not enough to create an account.
type FileDrift struct {
	File string `json:"file"`
	Diff
	Orphans      []string     `json:"orphans,omitempty"`
	ParseErrors  []ParseError `json:"parse_errors,omitempty"`
	ImportErrors []string     `json:"import_errors,omitempty"`
	Error        string       `json:"error,omitempty"`
}

type DriftReport struct {
	DryRun   bool          `json:"dry_run"`
	Files    []FileDrift   `json:"files"`
	Repaired bool          `json:"repaired"`
	Export   *ExportResult `json:"export,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Clean reports whether the scan found nothing to do: no drift, no orphans,
// no malformed lines, no errors.
func (r *DriftReport) Clean() bool {
	for _, f := range r.Files {
		if !f.Diff.Empty() || len(f.Orphans) > 0 || len(f.ParseErrors) > 0 ||
			len(f.ImportErrors) > 0 || f.Error != "" {
			return false
		}
	}
	return true
}

// Conflicts counts records resolved (or, in dry-run, that would be resolved)
// by the storage-wins policy.
func (r *DriftReport) Conflicts() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Conflicting)
	}
	return n
}

// Scan compares storage against the on-disk files. With dryRun the report is
// returned without touching storage or disk. Otherwise file-only aliases and
// quotas are imported into storage, conflicts are resolved storage-wins, and
// a full export runs afterwards so the files match the final storage state
// exactly; incremental patching is deliberately avoided.
func (s *Syncer) Scan(ctx context.Context, dryRun bool) (*DriftReport, error) {
	start := time.Now()
	if err := checkOutputDir(s.dir); err != nil {
		return nil, err
	}
	mode := "repair"
	if dryRun {
		mode = "dry_run"
	}
	scansTotal.WithLabelValues(mode).Inc()

	report := &DriftReport{DryRun: dryRun}

	aliasByKey := map[string]AliasRecord{}
	quotaByKey := map[string]QuotaRecord{}

	accounts := s.scanFile(ctx, AccountsFile,
		func(ctx context.Context) (map[string]string, error) {
			recs, err := s.store.ListActiveAccounts(ctx)
			if err != nil {
				return nil, err
			}
			return accountLines(recs), nil
		},
		func(data []byte) (map[string]string, []ParseError) {
			recs, errs := ParseAccounts(data)
			return accountLines(recs), errs
		})
	// Account lines with no storage-side row are orphans, never imported.
	accounts.Orphans = accounts.OnlyInFile
	accounts.OnlyInFile = nil

	aliases := s.scanFile(ctx, VirtualFile,
		func(ctx context.Context) (map[string]string, error) {
			recs, err := s.store.ListAliases(ctx)
			if err != nil {
				return nil, err
			}
			return aliasLines(recs), nil
		},
		func(data []byte) (map[string]string, []ParseError) {
			recs, errs := ParseAliases(data)
			for _, r := range recs {
				aliasByKey[r.Key()] = r
			}
			return aliasLines(recs), errs
		})

	quotas := s.scanFile(ctx, QuotasFile,
		func(ctx context.Context) (map[string]string, error) {
			recs, err := s.store.ListQuotas(ctx)
			if err != nil {
				return nil, err
			}
			return quotaLines(recs), nil
		},
		func(data []byte) (map[string]string, []ParseError) {
			recs, errs := ParseQuotas(data)
			for _, r := range recs {
				quotaByKey[r.Key()] = r
			}
			return quotaLines(recs), errs
		})

	if !dryRun {
		for _, key := range aliases.OnlyInFile {
			if err := s.store.UpsertAliasFromFile(ctx, aliasByKey[key]); err != nil {
				aliases.ImportErrors = append(aliases.ImportErrors, fmt.Sprintf("%s: %v", key, err))
			}
		}
		for _, key := range quotas.OnlyInFile {
			if err := s.store.UpsertQuotaFromFile(ctx, quotaByKey[key]); err != nil {
				quotas.ImportErrors = append(quotas.ImportErrors, fmt.Sprintf("%s: %v", key, err))
			}
		}
	}

	report.Files = []FileDrift{accounts, aliases, quotas}
	for _, f := range report.Files {
		driftRecordsTotal.WithLabelValues(f.File, "only_in_storage").Add(float64(len(f.OnlyInStorage)))
		driftRecordsTotal.WithLabelValues(f.File, "only_in_file").Add(float64(len(f.OnlyInFile) + len(f.Orphans)))
		driftRecordsTotal.WithLabelValues(f.File, "conflicting").Add(float64(len(f.Conflicting)))
	}

	if !dryRun {
		conflictsResolvedTotal.Add(float64(report.Conflicts()))
		exp, err := s.Export(ctx)
		if err != nil {
			return nil, err
		}
		report.Export = exp
		report.Repaired = true
		if err := s.store.RecordDrift(ctx, report); err != nil {
			s.logger.Error().Err(err).Msg("dms scan: record drift failed")
		}
	}

	report.Elapsed = time.Since(start)
	s.logger.Info().
		Str("mode", mode).
		Bool("clean", report.Clean()).
		Int("conflicts", report.Conflicts()).
		Dur("elapsed", report.Elapsed).
		Msg("dms scan finished")
	return report, nil
}

// scanFile computes one file's drift partition. Errors reading storage or
// disk mark the file's entry and leave the rest of the scan running.
func (s *Syncer) scanFile(
	ctx context.Context,
	name string,
	fromStore func(context.Context) (map[string]string, error),
	fromDisk func([]byte) (map[string]string, []ParseError),
) FileDrift {
	fd := FileDrift{File: name}

	storage, err := fromStore(ctx)
	if err != nil {
		fd.Error = fmt.Sprintf("read storage: %v", err)
		return fd
	}

	data, err := readFileOrEmpty(filepath.Join(s.dir, name))
	if err != nil {
		fd.Error = fmt.Sprintf("read file: %v", err)
		return fd
	}

	file, parseErrs := fromDisk(data)
	fd.ParseErrors = parseErrs
	fd.Diff = diffSets(storage, file)
	return fd
}

func accountLines(recs []AccountRecord) map[string]string {
	m := make(map[string]string, len(recs))
	for _, r := range recs {
		if r.Validate() == nil {
			m[r.Key()] = r.Line()
		}
	}
	return m
}

func aliasLines(recs []AliasRecord) map[string]string {
	m := make(map[string]string, len(recs))
	for _, r := range recs {
		if r.Validate() == nil {
			m[r.Key()] = r.Line()
		}
	}
	return m
}

func quotaLines(recs []QuotaRecord) map[string]string {
	m := make(map[string]string, len(recs))
	for _, r := range recs {
		if r.Validate() == nil {
			m[r.Key()] = r.Line()
		}
	}
	return m
}
