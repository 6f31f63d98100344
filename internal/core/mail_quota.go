package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/dockspace/internal/dms"
	"github.com/edvin/dockspace/internal/model"
)

type MailQuotaService struct {
	db DB
}

func NewMailQuotaService(db DB) *MailQuotaService {
	return &MailQuotaService{db: db}
}

// Set upserts the account's quota; an account has at most one.
func (s *MailQuotaService) Set(ctx context.Context, q *model.MailQuota) error {
	if q.SizeValue <= 0 {
		return fmt.Errorf("quota size must be greater than zero, got %d", q.SizeValue)
	}
	if len(q.Suffix) != 1 || !strings.Contains(dms.QuotaSuffixes, q.Suffix) {
		return fmt.Errorf("quota suffix %q not one of B, K, M, G, T", q.Suffix)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO mail_quotas (id, account_id, size_value, suffix, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (account_id)
		 DO UPDATE SET size_value = EXCLUDED.size_value, suffix = EXCLUDED.suffix, updated_at = now()`,
		q.ID, q.AccountID, q.SizeValue, q.Suffix, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert quota for account %s: %w", q.AccountID, err)
	}
	return nil
}

func (s *MailQuotaService) GetByAccount(ctx context.Context, accountID string) (*model.MailQuota, error) {
	var q model.MailQuota
	err := s.db.QueryRow(ctx,
		`SELECT id, account_id, size_value, suffix, created_at, updated_at
		 FROM mail_quotas WHERE account_id = $1`, accountID,
	).Scan(&q.ID, &q.AccountID, &q.SizeValue, &q.Suffix, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get quota for account %s: %w", accountID, err)
	}
	return &q, nil
}

func (s *MailQuotaService) List(ctx context.Context) ([]model.MailQuota, error) {
	rows, err := s.db.Query(ctx,
		`SELECT q.id, q.account_id, q.size_value, q.suffix, q.created_at, q.updated_at
		 FROM mail_quotas q
		 JOIN mail_accounts a ON q.account_id = a.id
		 ORDER BY lower(a.email)`,
	)
	if err != nil {
		return nil, fmt.Errorf("list mail quotas: %w", err)
	}
	defer rows.Close()

	var quotas []model.MailQuota
	for rows.Next() {
		var q model.MailQuota
		if err := rows.Scan(&q.ID, &q.AccountID, &q.SizeValue, &q.Suffix, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mail quota: %w", err)
		}
		quotas = append(quotas, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mail quotas: %w", err)
	}
	return quotas, nil
}

func (s *MailQuotaService) DeleteByAccount(ctx context.Context, accountID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM mail_quotas WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("delete quota for account %s: %w", accountID, err)
	}
	return nil
}
