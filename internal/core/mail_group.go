package core

import (
	"context"
	"fmt"

	"github.com/edvin/dockspace/internal/model"
)

type MailGroupService struct {
	db DB
}

func NewMailGroupService(db DB) *MailGroupService {
	return &MailGroupService{db: db}
}

func (s *MailGroupService) Create(ctx context.Context, g *model.MailGroup) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO mail_groups (id, name, created_at) VALUES ($1, $2, $3)`,
		g.ID, g.Name, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mail group %s: %w", g.Name, err)
	}
	return nil
}

func (s *MailGroupService) GetByName(ctx context.Context, name string) (*model.MailGroup, error) {
	var g model.MailGroup
	err := s.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM mail_groups WHERE name = $1`, name,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get mail group %s: %w", name, err)
	}
	return &g, nil
}

func (s *MailGroupService) List(ctx context.Context) ([]model.MailGroup, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, created_at FROM mail_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list mail groups: %w", err)
	}
	defer rows.Close()

	var groups []model.MailGroup
	for rows.Next() {
		var g model.MailGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mail group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mail groups: %w", err)
	}
	return groups, nil
}

func (s *MailGroupService) AddMember(ctx context.Context, groupID, accountID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO mail_group_members (group_id, account_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		groupID, accountID,
	)
	if err != nil {
		return fmt.Errorf("add account %s to group %s: %w", accountID, groupID, err)
	}
	return nil
}

func (s *MailGroupService) RemoveMember(ctx context.Context, groupID, accountID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM mail_group_members WHERE group_id = $1 AND account_id = $2`,
		groupID, accountID,
	)
	if err != nil {
		return fmt.Errorf("remove account %s from group %s: %w", accountID, groupID, err)
	}
	return nil
}

func (s *MailGroupService) ListMembers(ctx context.Context, groupID string) ([]model.MailAccount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.id, a.username, a.email, a.first_name, a.last_name, a.display_name, a.password_hash, a.active, a.admin, a.created_at, a.updated_at
		 FROM mail_accounts a
		 JOIN mail_group_members m ON m.account_id = a.id
		 WHERE m.group_id = $1
		 ORDER BY lower(a.email)`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var accounts []model.MailAccount
	for rows.Next() {
		var a model.MailAccount
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.DisplayName, &a.PasswordHash, &a.Active, &a.Admin, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}
	return accounts, nil
}

func (s *MailGroupService) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM mail_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mail group %s: %w", id, err)
	}
	return nil
}
