package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyCreate(t *testing.T) {
	db := &mockDB{}
	s := NewAPIKeyService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("INSERT INTO api_keys"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	key, rawKey, err := s.Create(ctx, "ci", []string{"accounts:read"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "dk_"))
	assert.Len(t, rawKey, 3+64)

	// Only the SHA-256 of the raw key is stored.
	sum := sha256.Sum256([]byte(rawKey))
	assert.Equal(t, hex.EncodeToString(sum[:]), key.KeyHash)
	assert.Equal(t, []string{"accounts:read"}, key.Scopes)
	db.AssertExpectations(t)
}

func TestAPIKeyCreate_UniqueKeys(t *testing.T) {
	db := &mockDB{}
	s := NewAPIKeyService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, nil)

	_, raw1, err := s.Create(ctx, "a", nil)
	require.NoError(t, err)
	_, raw2, err := s.Create(ctx, "b", nil)
	require.NoError(t, err)

	assert.NotEqual(t, raw1, raw2)
}

func TestAPIKeyRevoke(t *testing.T) {
	db := &mockDB{}
	s := NewAPIKeyService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("revoked_at IS NULL"), []any{"test-key-1"}).
		Return(pgconn.CommandTag{}, nil)

	require.NoError(t, s.Revoke(ctx, "test-key-1"))
	db.AssertExpectations(t)
}
