package handler

import (
	"net/http"

	"github.com/parisxmas/formbox/internal/repository"
)

type AdminHandler struct {
	forms repository.FormStore
	subs  repository.SubmissionStore
	files repository.FileStore
}

func NewAdminHandler(forms repository.FormStore, subs repository.SubmissionStore, files repository.FileStore) *AdminHandler {
	return &AdminHandler{forms: forms, subs: subs, files: files}
}

// Stats reports collection counts and the submission index set.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	formCount, err := h.forms.Count(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	subCount, err := h.subs.Count(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	fileCount, err := h.files.Count(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	indexes, err := h.subs.IndexNames(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formCount":       formCount,
		"submissionCount": subCount,
		"fileCount":       fileCount,
		"indexes":         indexes,
	})
}
