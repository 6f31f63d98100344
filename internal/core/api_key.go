package core

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/edvin/dockspace/internal/model"
	"github.com/edvin/dockspace/internal/platform"
)

type APIKeyService struct {
	db DB
}

func NewAPIKeyService(db DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// Create generates a new key, stores its SHA-256 hash, and returns the raw
// key. The raw key is shown exactly once.
func (s *APIKeyService) Create(ctx context.Context, name string, scopes []string) (*model.APIKey, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("generate api key: %w", err)
	}
	rawKey := "dk_" + hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(rawKey))

	key := &model.APIKey{
		ID:        platform.NewID(),
		Name:      name,
		KeyHash:   hex.EncodeToString(hash[:]),
		Scopes:    scopes,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, scopes, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		key.ID, key.Name, key.KeyHash, key.Scopes, key.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("insert api key: %w", err)
	}
	return key, rawKey, nil
}

func (s *APIKeyService) List(ctx context.Context) ([]model.APIKey, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, key_hash, scopes, created_at, revoked_at FROM api_keys ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.Scopes, &k.CreatedAt, &k.RevokedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api keys: %w", err)
	}
	return keys, nil
}

func (s *APIKeyService) Revoke(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE api_keys SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("revoke api key %s: %w", id, err)
	}
	return nil
}
