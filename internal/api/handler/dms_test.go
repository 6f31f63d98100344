package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/dockspace/internal/dms"
)

type stubStore struct {
	accounts []dms.AccountRecord
	listErr  error
}

func (s *stubStore) ListActiveAccounts(ctx context.Context) ([]dms.AccountRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.accounts, nil
}

func (s *stubStore) ListAliases(ctx context.Context) ([]dms.AliasRecord, error) { return nil, nil }
func (s *stubStore) ListQuotas(ctx context.Context) ([]dms.QuotaRecord, error) { return nil, nil }
func (s *stubStore) UpsertAliasFromFile(ctx context.Context, rec dms.AliasRecord) error {
	return nil
}
func (s *stubStore) UpsertQuotaFromFile(ctx context.Context, rec dms.QuotaRecord) error {
	return nil
}
func (s *stubStore) RecordDrift(ctx context.Context, report *dms.DriftReport) error { return nil }

func newDMSHandler(t *testing.T, store dms.Store) (*DMS, string) {
	t.Helper()
	dir := t.TempDir()
	return NewDMS(dms.NewSyncer(store, dir, zerolog.Nop())), dir
}

func TestDMSExport(t *testing.T) {
	store := &stubStore{accounts: []dms.AccountRecord{
		{Email: "alice@example.com", PasswordHash: "{SHA512-CRYPT}$6$a$aa"},
	}}
	h, dir := newDMSHandler(t, store)

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest("POST", "/api/v1/dms/export", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	data, err := os.ReadFile(filepath.Join(dir, dms.AccountsFile))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com|{SHA512-CRYPT}$6$a$aa\n", string(data))
}

func TestDMSExport_PartialFailureIs207(t *testing.T) {
	store := &stubStore{listErr: errors.New("db down")}
	h, _ := newDMSHandler(t, store)

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest("POST", "/api/v1/dms/export", nil))

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
}

func TestDMSExport_MissingDirIs503(t *testing.T) {
	h := NewDMS(dms.NewSyncer(&stubStore{}, "/nonexistent/dms/dir", zerolog.Nop()))

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest("POST", "/api/v1/dms/export", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDMSScan_DryRun(t *testing.T) {
	h, _ := newDMSHandler(t, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/dms/scan", strings.NewReader(`{"dry_run":true}`))
	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report dms.DriftReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.DryRun)
	assert.False(t, report.Repaired)
}

func TestDMSScan_BadBody(t *testing.T) {
	h, _ := newDMSHandler(t, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/dms/scan", strings.NewReader("{broken"))
	h.Scan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
