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

type MailQuota struct {
	svc *core.MailQuotaService
	exp *Exporter
}

func NewMailQuota(svc *core.MailQuotaService, exp *Exporter) *MailQuota {
	return &MailQuota{svc: svc, exp: exp}
}

func (h *MailQuota) Get(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	quota, err := h.svc.GetByAccount(r.Context(), accountID)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, quota)
}

func (h *MailQuota) Put(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetMailQuota
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	quota := &model.MailQuota{
		ID:        platform.NewID(),
		AccountID: accountID,
		SizeValue: req.SizeValue,
		Suffix:    req.Suffix,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.svc.Set(r.Context(), quota); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	response.WriteJSON(w, http.StatusOK, quota)
}

func (h *MailQuota) List(w http.ResponseWriter, r *http.Request) {
	quotas, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, quotas)
}

func (h *MailQuota) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteByAccount(r.Context(), accountID); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.exp.AfterChange(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
