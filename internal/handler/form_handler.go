package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/service"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

// formRequest is the create/update payload. Fields stays raw so a
// non-array value can be rejected with a specific message instead of a
// generic decode error.
type formRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Fields      json.RawMessage      `json:"fields"`
	IsPublished bool                 `json:"isPublished"`
	Style       *models.FormStyle    `json:"style"`
	Settings    *models.FormSettings `json:"settings"`
}

// parseFields decodes the raw fields value. An absent or null value yields
// a nil slice; anything other than an array is rejected.
func (req *formRequest) parseFields() ([]models.FormField, error) {
	raw := bytes.TrimSpace(req.Fields)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, errFieldsNotArray
	}
	var fields []models.FormField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errFieldsNotArray
	}
	return fields, nil
}

var errFieldsNotArray = &fieldsError{}

type fieldsError struct{}

func (e *fieldsError) Error() string { return "Fields must be an array" }

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields, err := req.parseFields()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := h.svc.Create(r.Context(), service.CreateFormInput{
		Title:       req.Title,
		Description: req.Description,
		Fields:      fields,
		Style:       req.Style,
		Settings:    req.Settings,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.Get(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields, err := req.parseFields()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := h.svc.Update(r.Context(), chi.URLParam(r, "formId"), service.UpdateFormInput{
		Title:       req.Title,
		Description: req.Description,
		Fields:      fields,
		IsPublished: req.IsPublished,
		Style:       req.Style,
		Settings:    req.Settings,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "formId")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Form deleted successfully"})
}
