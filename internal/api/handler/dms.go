package handler

import (
	"errors"
	"net/http"

	"github.com/edvin/dockspace/internal/api/request"
	"github.com/edvin/dockspace/internal/api/response"
	"github.com/edvin/dockspace/internal/dms"
)

type DMS struct {
	syncer *dms.Syncer
}

func NewDMS(syncer *dms.Syncer) *DMS {
	return &DMS{syncer: syncer}
}

func (h *DMS) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.Export(r.Context())
	if err != nil {
		var cfgErr *dms.ConfigurationError
		if errors.As(err, &cfgErr) {
			response.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusMultiStatus
	}
	response.WriteJSON(w, status, res)
}

func (h *DMS) Scan(w http.ResponseWriter, r *http.Request) {
	var req request.ScanDMS
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.syncer.Scan(r.Context(), req.DryRun)
	if err != nil {
		var cfgErr *dms.ConfigurationError
		if errors.As(err, &cfgErr) {
			response.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, report)
}
