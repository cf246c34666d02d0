package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formbox/internal/service"
)

type AnalyticsHandler struct {
	svc       *service.AnalyticsService
	exportSvc *service.ExportService
}

func NewAnalyticsHandler(svc *service.AnalyticsService, exportSvc *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, exportSvc: exportSvc}
}

func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Get(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export renders all submissions of a form. The format query parameter
// selects csv or json; json is the default.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportSvc.Export(r.Context(), chi.URLParam(r, "formId"), r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
