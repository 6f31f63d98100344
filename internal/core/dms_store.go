package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edvin/dockspace/internal/dms"
	"github.com/edvin/dockspace/internal/platform"
)

// DMSStore implements dms.Store on top of the mail tables. It is the only
// surface the synchronizer sees of the application.
type DMSStore struct {
	db DB
}

func NewDMSStore(db DB) *DMSStore {
	return &DMSStore{db: db}
}

func (s *DMSStore) ListActiveAccounts(ctx context.Context) ([]dms.AccountRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT email, password_hash FROM mail_accounts WHERE active ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}
	defer rows.Close()

	var recs []dms.AccountRecord
	for rows.Next() {
		var r dms.AccountRecord
		if err := rows.Scan(&r.Email, &r.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan account record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account records: %w", err)
	}
	return recs, nil
}

// ListAliases resolves each alias to its destination mailbox. Aliases whose
// address collides with a real mailbox are excluded from the export so the
// virtual map never routes a mailbox away from itself.
func (s *DMSStore) ListAliases(ctx context.Context) ([]dms.AliasRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT al.alias, a.email
		 FROM mail_aliases al
		 JOIN mail_accounts a ON al.account_id = a.id
		 WHERE NOT EXISTS (SELECT 1 FROM mail_accounts m WHERE m.email = al.alias)
		 ORDER BY al.alias`,
	)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var recs []dms.AliasRecord
	for rows.Next() {
		var r dms.AliasRecord
		if err := rows.Scan(&r.Alias, &r.Destination); err != nil {
			return nil, fmt.Errorf("scan alias record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alias records: %w", err)
	}
	return recs, nil
}

func (s *DMSStore) ListQuotas(ctx context.Context) ([]dms.QuotaRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.email, q.size_value, q.suffix
		 FROM mail_quotas q
		 JOIN mail_accounts a ON q.account_id = a.id
		 ORDER BY a.email`,
	)
	if err != nil {
		return nil, fmt.Errorf("list quotas: %w", err)
	}
	defer rows.Close()

	var recs []dms.QuotaRecord
	for rows.Next() {
		var r dms.QuotaRecord
		if err := rows.Scan(&r.Email, &r.SizeValue, &r.Suffix); err != nil {
			return nil, fmt.Errorf("scan quota record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quota records: %w", err)
	}
	return recs, nil
}

// UpsertAliasFromFile imports a hand-edited virtual map line. The
// destination must resolve to an existing account; referential integrity
// beyond that stays with the account-management layer.
func (s *DMSStore) UpsertAliasFromFile(ctx context.Context, rec dms.AliasRecord) error {
	var accountID string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM mail_accounts WHERE email = lower($1)`, rec.Destination,
	).Scan(&accountID)
	if err != nil {
		return fmt.Errorf("resolve destination %s: %w", rec.Destination, err)
	}

	now := time.Now()
	_, err = s.db.Exec(ctx,
		`INSERT INTO mail_aliases (id, alias, account_id, created_at, updated_at)
		 VALUES ($1, lower($2), $3, $4, $5)
		 ON CONFLICT (alias)
		 DO UPDATE SET account_id = EXCLUDED.account_id, updated_at = now()`,
		platform.NewID(), rec.Alias, accountID, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert alias %s from file: %w", rec.Alias, err)
	}
	return nil
}

func (s *DMSStore) UpsertQuotaFromFile(ctx context.Context, rec dms.QuotaRecord) error {
	var accountID string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM mail_accounts WHERE email = lower($1)`, rec.Email,
	).Scan(&accountID)
	if err != nil {
		return fmt.Errorf("resolve owner %s: %w", rec.Email, err)
	}

	now := time.Now()
	_, err = s.db.Exec(ctx,
		`INSERT INTO mail_quotas (id, account_id, size_value, suffix, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (account_id)
		 DO UPDATE SET size_value = EXCLUDED.size_value, suffix = EXCLUDED.suffix, updated_at = now()`,
		platform.NewID(), accountID, rec.SizeValue, rec.Suffix, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert quota for %s from file: %w", rec.Email, err)
	}
	return nil
}

func (s *DMSStore) RecordDrift(ctx context.Context, report *dms.DriftReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal drift report: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO drift_reports (id, dry_run, clean, conflicts, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())`,
		platform.NewID(), report.DryRun, report.Clean(), report.Conflicts(), body,
	)
	if err != nil {
		return fmt.Errorf("insert drift report: %w", err)
	}
	return nil
}
