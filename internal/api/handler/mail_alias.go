package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/dockspace/internal/api/request"
	"github.com/edvin/dockspace/internal/api/response"
	"github.com/edvin/dockspace/internal/core"
	"github.com/edvin/dockspace/internal/model"
	"github.com/edvin/dockspace/internal/platform"
)

type MailAlias struct {
	svc *core.MailAliasService
	exp *Exporter
}

func NewMailAlias(svc *core.MailAliasService, exp *Exporter) *MailAlias {
	return &MailAlias{svc: svc, exp: exp}
}

func (h *MailAlias) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	aliases, err := h.svc.ListByAccount(r.Context(), accountID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, aliases)
}

func (h *MailAlias) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	aliases, hasMore, err := h.svc.List(r.Context(), pg.Limit, pg.Cursor)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var nextCursor string
	if hasMore && len(aliases) > 0 {
		nextCursor = aliases[len(aliases)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, aliases, nextCursor, hasMore)
}

func (h *MailAlias) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateMailAlias
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	alias := &model.MailAlias{
		ID:        platform.NewID(),
		Alias:     req.Alias,
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.svc.Create(r.Context(), alias); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	response.WriteJSON(w, http.StatusCreated, alias)
}

func (h *MailAlias) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "aliasID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	alias, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, alias)
}

func (h *MailAlias) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "aliasID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
