package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/dockspace/internal/dms"
)

func TestDMSStoreListActiveAccounts(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	rows := newMockRows(
		func(dest ...any) error {
			*(dest[0].(*string)) = "alice@example.com"
			*(dest[1].(*string)) = "{SHA512-CRYPT}$6$a$aa"
			return nil
		},
		func(dest ...any) error {
			*(dest[0].(*string)) = "bob@example.com"
			*(dest[1].(*string)) = "{SHA512-CRYPT}$6$b$bb"
			return nil
		},
	)
	db.On("Query", ctx, sqlContaining("WHERE active"), mock.Anything).Return(rows, nil)

	recs, err := s.ListActiveAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "alice@example.com|{SHA512-CRYPT}$6$a$aa", recs[0].Line())
}

func TestDMSStoreListAliases_ExcludesShadowed(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	db.On("Query", ctx, sqlContaining("NOT EXISTS"), mock.Anything).Return(newEmptyMockRows(), nil)

	recs, err := s.ListAliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
	db.AssertExpectations(t)
}

func TestDMSStoreUpsertAliasFromFile(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "test-account-1"
		return nil
	}}
	db.On("QueryRow", ctx, sqlContaining("SELECT id FROM mail_accounts"), []any{"alice@example.com"}).Return(row)
	db.On("Exec", ctx, sqlContaining("ON CONFLICT (alias)"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	err := s.UpsertAliasFromFile(ctx, dms.AliasRecord{
		Alias:       "support@example.com",
		Destination: "alice@example.com",
	})
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestDMSStoreUpsertAliasFromFile_UnresolvableDestination(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return errors.New("no rows in result set")
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	err := s.UpsertAliasFromFile(ctx, dms.AliasRecord{
		Alias:       "stray@example.com",
		Destination: "nobody@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve destination nobody@example.com")
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestDMSStoreUpsertQuotaFromFile(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "test-account-1"
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"alice@example.com"}).Return(row)
	db.On("Exec", ctx, sqlContaining("ON CONFLICT (account_id)"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	err := s.UpsertQuotaFromFile(ctx, dms.QuotaRecord{
		Email:     "alice@example.com",
		SizeValue: 10,
		Suffix:    "G",
	})
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestDMSStoreRecordDrift(t *testing.T) {
	db := &mockDB{}
	s := NewDMSStore(db)
	ctx := context.Background()

	var captured []any
	db.On("Exec", ctx, sqlContaining("INSERT INTO drift_reports"), mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]any)
		}).
		Return(pgconn.CommandTag{}, nil)

	report := &dms.DriftReport{
		DryRun: false,
		Files: []dms.FileDrift{{
			File: dms.QuotasFile,
			Diff: dms.Diff{Conflicting: []dms.Conflict{{Key: "alice@example.com"}}},
		}},
	}
	require.NoError(t, s.RecordDrift(ctx, report))

	// id, dry_run, clean, conflicts, report body
	require.Len(t, captured, 5)
	assert.Equal(t, false, captured[1])
	assert.Equal(t, false, captured[2])
	assert.Equal(t, 1, captured[3])
	assert.Contains(t, string(captured[4].([]byte)), "alice@example.com")
}
