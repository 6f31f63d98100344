package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edvin/dockspace/internal/api/request"
	"github.com/edvin/dockspace/internal/api/response"
	"github.com/edvin/dockspace/internal/core"
	"github.com/edvin/dockspace/internal/model"
)

type Audit struct {
	db core.DB
}

func NewAudit(db core.DB) *Audit {
	return &Audit{db: db}
}

func (h *Audit) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	rows, err := h.db.Query(r.Context(),
		`SELECT id, api_key_id, method, path, resource_type, resource_id, status_code, request_body, created_at
		 FROM audit_logs ORDER BY id DESC LIMIT $1`, pg.Limit,
	)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		var l model.AuditLog
		if err := rows.Scan(&l.ID, &l.APIKeyID, &l.Method, &l.Path, &l.ResourceType, &l.ResourceID, &l.StatusCode, &l.RequestBody, &l.CreatedAt); err != nil {
			response.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, logs)
}

// ListDrift returns recorded repair passes, most recent first.
func (h *Audit) ListDrift(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	rows, err := h.db.Query(r.Context(),
		`SELECT id, dry_run, clean, conflicts, report, created_at
		 FROM drift_reports ORDER BY created_at DESC LIMIT $1`, pg.Limit,
	)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	type driftRow struct {
		ID        string          `json:"id"`
		DryRun    bool            `json:"dry_run"`
		Clean     bool            `json:"clean"`
		Conflicts int             `json:"conflicts"`
		Report    json.RawMessage `json:"report"`
		CreatedAt time.Time       `json:"created_at"`
	}
	var reports []driftRow
	for rows.Next() {
		var d driftRow
		if err := rows.Scan(&d.ID, &d.DryRun, &d.Clean, &d.Conflicts, &d.Report, &d.CreatedAt); err != nil {
			response.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		reports = append(reports, d)
	}
	if err := rows.Err(); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, reports)
}
