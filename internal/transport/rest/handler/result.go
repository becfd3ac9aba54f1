package handler

import (
	"certprep/internal/service"
	"net/http"
)

// ResultHandler handles the exam history endpoints
type ResultHandler struct {
	resultSvc *service.ResultService
}

// NewResultHandler creates a new result handler
func NewResultHandler(resultSvc *service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// List handles GET /v1/results
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.resultSvc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Stats handles GET /v1/results/stats
func (h *ResultHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.resultSvc.Stats(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
