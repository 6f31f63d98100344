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

type MailAccount struct {
	svc *core.MailAccountService
	exp *Exporter
}

func NewMailAccount(svc *core.MailAccountService, exp *Exporter) *MailAccount {
	return &MailAccount{svc: svc, exp: exp}
}

func (h *MailAccount) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	accounts, hasMore, err := h.svc.List(r.Context(), pg.Limit, pg.Cursor)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var nextCursor string
	if hasMore && len(accounts) > 0 {
		nextCursor = accounts[len(accounts)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, accounts, nextCursor, hasMore)
}

func (h *MailAccount) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMailAccount
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	account := &model.MailAccount{
		ID:        platform.NewID(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    true,
		Admin:     req.Admin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.svc.Create(r.Context(), account, req.Password); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	response.WriteJSON(w, http.StatusCreated, account)
}

func (h *MailAccount) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, account)
}

func (h *MailAccount) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateMailAccount
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	account.FirstName = req.FirstName
	account.LastName = req.LastName
	account.DisplayName = req.DisplayName
	account.Active = req.Active
	account.Admin = req.Admin

	if err := h.svc.Update(r.Context(), account); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	response.WriteJSON(w, http.StatusOK, account)
}

func (h *MailAccount) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetMailAccountPassword
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SetPassword(r.Context(), id, req.Password); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *MailAccount) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
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
