package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formbox/internal/service"
)

type FileHandler struct {
	svc *service.FileService
}

func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Download streams the stored file back with its original name and type.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.svc.Download(r.Context(), chi.URLParam(r, "fileId"))
	if err != nil {
		respondError(w, err)
		return
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Write(data)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "fileId")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

// BySubmission lists file metadata for one submission.
func (h *FileHandler) BySubmission(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListBySubmission(r.Context(), chi.URLParam(r, "submissionId"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
