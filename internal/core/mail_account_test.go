package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/dockspace/internal/model"
)

func sqlContaining(substr string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, substr) })
}

func TestMailAccountCreate(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("INSERT INTO mail_accounts"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)
	db.On("Exec", ctx, sqlContaining("DELETE FROM mail_aliases"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	now := time.Now()
	a := &model.MailAccount{
		ID:        "test-account-1",
		Email:     "Alice@Example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.Create(ctx, a, "hunter2")
	require.NoError(t, err)

	// Normalization: lowercased email, username defaulted from it, display
	// name assembled, and the stored hash carries the scheme prefix.
	assert.Equal(t, "alice@example.com", a.Email)
	assert.Equal(t, "alice@example.com", a.Username)
	assert.Equal(t, "Alice Smith", a.DisplayName)
	assert.True(t, strings.HasPrefix(a.PasswordHash, HashPrefix))
	db.AssertExpectations(t)
}

func TestMailAccountCreate_EmptyPassword(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)

	err := s.Create(context.Background(), &model.MailAccount{Email: "a@b.com"}, "")
	assert.Error(t, err)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestMailAccountCreate_InsertError(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("INSERT INTO mail_accounts"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("duplicate key"))

	err := s.Create(ctx, &model.MailAccount{Email: "a@b.com"}, "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestMailAccountGetByEmail(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	now := time.Now()
	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "test-account-1"
		*(dest[1].(*string)) = "alice@example.com"
		*(dest[2].(*string)) = "alice@example.com"
		*(dest[3].(*string)) = "Alice"
		*(dest[4].(*string)) = "Smith"
		*(dest[5].(*string)) = "Alice Smith"
		*(dest[6].(*string)) = "{SHA512-CRYPT}$6$s$h"
		*(dest[7].(*bool)) = true
		*(dest[8].(*bool)) = false
		*(dest[9].(*time.Time)) = now
		*(dest[10].(*time.Time)) = now
		return nil
	}}
	db.On("QueryRow", ctx, sqlContaining("lower(email)"), []any{"Alice@Example.com"}).Return(row)

	a, err := s.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "test-account-1", a.ID)
	assert.True(t, a.Active)
}

func TestMailAccountList_Pagination(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	scan := func(id string) func(dest ...any) error {
		return func(dest ...any) error {
			*(dest[0].(*string)) = id
			return nil
		}
	}
	// Limit 2 with 3 rows returned means hasMore.
	db.On("Query", ctx, mock.AnythingOfType("string"), []any{3}).
		Return(newMockRows(scan("a"), scan("b"), scan("c")), nil)

	accounts, hasMore, err := s.List(ctx, 2, "")
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].ID)
	assert.Equal(t, "b", accounts[1].ID)
}

func TestMailAccountList_WithCursor(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	db.On("Query", ctx, sqlContaining("WHERE id > $1"), []any{"cursor-id", 51}).
		Return(newEmptyMockRows(), nil)

	accounts, hasMore, err := s.List(ctx, 50, "cursor-id")
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Empty(t, accounts)
}

func TestMailAccountSetPasswordByEmail_NotFound(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return errors.New("no rows in result set")
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	err := s.SetPasswordByEmail(ctx, "nobody@example.com", "pw")
	require.Error(t, err)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestMailAccountSetActive(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("SET active"), []any{false, "test-account-1"}).
		Return(pgconn.CommandTag{}, nil)

	require.NoError(t, s.SetActive(ctx, "test-account-1", false))
	db.AssertExpectations(t)
}

func TestMailAccountDelete(t *testing.T) {
	db := &mockDB{}
	s := NewMailAccountService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("DELETE FROM mail_accounts"), []any{"test-account-1"}).
		Return(pgconn.CommandTag{}, nil)

	require.NoError(t, s.Delete(ctx, "test-account-1"))
	db.AssertExpectations(t)
}
