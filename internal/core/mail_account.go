package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/dockspace/internal/model"
)

type MailAccountService struct {
	db DB
}

func NewMailAccountService(db DB) *MailAccountService {
	return &MailAccountService{db: db}
}

const accountColumns = `id, username, email, first_name, last_name, display_name, password_hash, active, admin, created_at, updated_at`

// Create inserts the account with a freshly generated SHA512-CRYPT hash and
// removes any alias that shadows the new mailbox address.
func (s *MailAccountService) Create(ctx context.Context, a *model.MailAccount, rawPassword string) error {
	hash, err := HashPassword(rawPassword)
	if err != nil {
		return fmt.Errorf("create mail account: %w", err)
	}
	a.PasswordHash = hash
	normalizeAccount(a)

	_, err = s.db.Exec(ctx,
		`INSERT INTO mail_accounts (id, username, email, first_name, last_name, display_name, password_hash, active, admin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Username, a.Email, a.FirstName, a.LastName, a.DisplayName, a.PasswordHash, a.Active, a.Admin, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mail account: %w", err)
	}

	if err := s.removeShadowingAliases(ctx, a.Email); err != nil {
		return fmt.Errorf("create mail account: %w", err)
	}
	return nil
}

// removeShadowingAliases deletes aliases that collide with a real mailbox
// address, so the virtual map never routes a mailbox away from itself.
func (s *MailAccountService) removeShadowingAliases(ctx context.Context, email string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM mail_aliases WHERE lower(alias) = lower($1)`, email)
	if err != nil {
		return fmt.Errorf("remove aliases shadowing %s: %w", email, err)
	}
	return nil
}

func (s *MailAccountService) GetByID(ctx context.Context, id string) (*model.MailAccount, error) {
	var a model.MailAccount
	err := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM mail_accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.DisplayName, &a.PasswordHash, &a.Active, &a.Admin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get mail account %s: %w", id, err)
	}
	return &a, nil
}

func (s *MailAccountService) GetByEmail(ctx context.Context, email string) (*model.MailAccount, error) {
	var a model.MailAccount
	err := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM mail_accounts WHERE lower(email) = lower($1)`, email,
	).Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.DisplayName, &a.PasswordHash, &a.Active, &a.Admin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get mail account by email %s: %w", email, err)
	}
	return &a, nil
}

func (s *MailAccountService) List(ctx context.Context, limit int, cursor string) ([]model.MailAccount, bool, error) {
	query := `SELECT ` + accountColumns + ` FROM mail_accounts`
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
		return nil, false, fmt.Errorf("list mail accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.MailAccount
	for rows.Next() {
		var a model.MailAccount
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.DisplayName, &a.PasswordHash, &a.Active, &a.Admin, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan mail account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate mail accounts: %w", err)
	}

	hasMore := len(accounts) > limit
	if hasMore {
		accounts = accounts[:limit]
	}
	return accounts, hasMore, nil
}

// Update changes profile fields and flags; email, username and password go
// through their own paths.
func (s *MailAccountService) Update(ctx context.Context, a *model.MailAccount) error {
	_, err := s.db.Exec(ctx,
		`UPDATE mail_accounts
		 SET first_name = $1, last_name = $2, display_name = $3, active = $4, admin = $5, updated_at = now()
		 WHERE id = $6`,
		a.FirstName, a.LastName, a.DisplayName, a.Active, a.Admin, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update mail account %s: %w", a.ID, err)
	}
	return nil
}

func (s *MailAccountService) SetPassword(ctx context.Context, id, rawPassword string) error {
	hash, err := HashPassword(rawPassword)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`UPDATE mail_accounts SET password_hash = $1, updated_at = now() WHERE id = $2`,
		hash, id,
	)
	if err != nil {
		return fmt.Errorf("set password for mail account %s: %w", id, err)
	}
	return nil
}

// SetPasswordByEmail is the CLI path; it resolves the account first so a
// typoed address fails loudly instead of updating zero rows.
func (s *MailAccountService) SetPasswordByEmail(ctx context.Context, email, rawPassword string) error {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.SetPassword(ctx, a.ID, rawPassword)
}

// SetActive suspends or reactivates an account. Suspended accounts drop out
// of the next postfix-accounts.cf export but stay in storage.
func (s *MailAccountService) SetActive(ctx context.Context, id string, active bool) error {
	_, err := s.db.Exec(ctx,
		`UPDATE mail_accounts SET active = $1, updated_at = now() WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("set mail account %s active=%t: %w", id, active, err)
	}
	return nil
}

func (s *MailAccountService) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM mail_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mail account %s: %w", id, err)
	}
	return nil
}

func normalizeAccount(a *model.MailAccount) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Username = strings.ToLower(strings.TrimSpace(a.Username))
	if a.Username == "" {
		a.Username = a.Email
	}
	if a.DisplayName == "" {
		a.DisplayName = strings.TrimSpace(a.FirstName + " " + a.LastName)
	}
}
