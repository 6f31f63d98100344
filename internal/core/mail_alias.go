package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/dockspace/internal/model"
)

type MailAliasService struct {
	db DB
}

func NewMailAliasService(db DB) *MailAliasService {
	return &MailAliasService{db: db}
}

// Create inserts an alias after checking it does not shadow an existing
// mailbox address.
func (s *MailAliasService) Create(ctx context.Context, al *model.MailAlias) error {
	al.Alias = strings.ToLower(strings.TrimSpace(al.Alias))

	var shadows bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mail_accounts WHERE lower(email) = $1)`, al.Alias,
	).Scan(&shadows)
	if err != nil {
		return fmt.Errorf("check alias %s against mailboxes: %w", al.Alias, err)
	}
	if shadows {
		return fmt.Errorf("alias %s shadows an existing mailbox address", al.Alias)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO mail_aliases (id, alias, account_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		al.ID, al.Alias, al.AccountID, al.CreatedAt, al.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mail alias %s: %w", al.Alias, err)
	}
	return nil
}

func (s *MailAliasService) GetByID(ctx context.Context, id string) (*model.MailAlias, error) {
	var al model.MailAlias
	err := s.db.QueryRow(ctx,
		`SELECT id, alias, account_id, created_at, updated_at FROM mail_aliases WHERE id = $1`, id,
	).Scan(&al.ID, &al.Alias, &al.AccountID, &al.CreatedAt, &al.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get mail alias %s: %w", id, err)
	}
	return &al, nil
}

func (s *MailAliasService) ListByAccount(ctx context.Context, accountID string) ([]model.MailAlias, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, alias, account_id, created_at, updated_at
		 FROM mail_aliases WHERE account_id = $1 ORDER BY alias`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list aliases for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var aliases []model.MailAlias
	for rows.Next() {
		var al model.MailAlias
		if err := rows.Scan(&al.ID, &al.Alias, &al.AccountID, &al.CreatedAt, &al.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mail alias: %w", err)
		}
		aliases = append(aliases, al)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mail aliases: %w", err)
	}
	return aliases, nil
}

func (s *MailAliasService) List(ctx context.Context, limit int, cursor string) ([]model.MailAlias, bool, error) {
	query := `SELECT id, alias, account_id, created_at, updated_at FROM mail_aliases`
	args := []any{}
	argIdx := 1

	if cursor != "" {
		query += fmt.Sprintf(` WHERE id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list mail aliases: %w", err)
	}
	defer rows.Close()

	var aliases []model.MailAlias
	for rows.Next() {
		var al model.MailAlias
		if err := rows.Scan(&al.ID, &al.Alias, &al.AccountID, &al.CreatedAt, &al.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan mail alias: %w", err)
		}
		aliases = append(aliases, al)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate mail aliases: %w", err)
	}

	hasMore := len(aliases) > limit
	if hasMore {
		aliases = aliases[:limit]
	}
	return aliases, hasMore, nil
}

func (s *MailAliasService) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM mail_aliases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mail alias %s: %w", id, err)
	}
	return nil
}
