package handler

import (
	"net/http"

	"github.com/parisxmas/formbox/internal/service"
)

type DashboardHandler struct {
	formSvc *service.FormService
	subSvc  *service.SubmissionService
}

func NewDashboardHandler(formSvc *service.FormService, subSvc *service.SubmissionService) *DashboardHandler {
	return &DashboardHandler{formSvc: formSvc, subSvc: subSvc}
}

// Dashboard summarizes every form with its submission count, newest first.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	var totalSubs int64
	formStats := make([]map[string]any, 0, len(forms))
	for _, f := range forms {
		count, err := h.subSvc.CountByForm(r.Context(), f.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		totalSubs += count
		formStats = append(formStats, map[string]any{
			"id":              f.ID,
			"title":           f.Title,
			"isPublished":     f.IsPublished,
			"submissionCount": count,
			"fieldCount":      len(f.Fields),
			"updatedAt":       f.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"formCount":       len(forms),
		"submissionCount": totalSubs,
		"forms":           formStats,
	})
}
