package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formbox/internal/service"
)

// maxSubmitBody caps multipart submissions at 32 MB before the per-form
// file size policy is applied.
const maxSubmitBody = 32 << 20

type SubmissionHandler struct {
	svc     *service.SubmissionService
	fileSvc *service.FileService
}

func NewSubmissionHandler(svc *service.SubmissionService, fileSvc *service.FileService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, fileSvc: fileSvc}
}

// Submit accepts a public submission for a published form. Plain JSON
// bodies carry the answers under "data"; multipart bodies carry a "data"
// part plus file attachments.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formId")
	ip := clientIP(r)
	agent := r.UserAgent()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.submitMultipart(w, r, formID, ip, agent)
		return
	}

	var req struct {
		Data  map[string]any `json:"data"`
		Files []string       `json:"files"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.Create(r.Context(), formID, req.Data, req.Files, ip, agent)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Form submitted successfully",
		"submissionId": sub.ID,
	})
}

func (h *SubmissionHandler) submitMultipart(w http.ResponseWriter, r *http.Request, formID, ip, agent string) {
	if err := r.ParseMultipartForm(maxSubmitBody); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	var data map[string]any
	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			writeError(w, http.StatusBadRequest, "invalid data payload")
			return
		}
	}
	sub, err := h.svc.Create(r.Context(), formID, data, nil, ip, agent)
	if err != nil {
		respondError(w, err)
		return
	}

	fileIDs := make([]string, 0)
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable file part")
				return
			}
			blob, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable file part")
				return
			}
			doc, err := h.fileSvc.Upload(r.Context(), service.UploadInput{
				FormID:       formID,
				SubmissionID: sub.ID,
				FileName:     fh.Filename,
				ContentType:  fh.Header.Get("Content-Type"),
				Data:         blob,
			})
			if err != nil {
				respondError(w, err)
				return
			}
			fileIDs = append(fileIDs, doc.ID)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Form submitted successfully",
		"submissionId": sub.ID,
		"fileIds":      fileIDs,
	})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
