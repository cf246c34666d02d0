package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

// FormService owns the form lifecycle: draft creation, full-replacement
// updates, publishing, and the delete cascade over submissions.
type FormService struct {
	forms repository.FormStore
	subs  repository.SubmissionStore
}

func NewFormService(forms repository.FormStore, subs repository.SubmissionStore) *FormService {
	return &FormService{forms: forms, subs: subs}
}

// CreateFormInput carries the creation payload. Nil style/settings get the
// builder defaults.
type CreateFormInput struct {
	Title       string
	Description string
	Fields      []models.FormField
	Style       *models.FormStyle
	Settings    *models.FormSettings
}

// Create stores a new draft. The form always starts unpublished no matter
// what the request claimed, and an empty title becomes "Untitled Form".
func (s *FormService) Create(ctx context.Context, in CreateFormInput) (*models.Form, error) {
	if err := validateFields(in.Fields); err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = "Untitled Form"
	}
	fields := in.Fields
	if fields == nil {
		fields = []models.FormField{}
	}
	style := models.DefaultStyle()
	if in.Style != nil {
		style = *in.Style
	}
	settings := models.DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
	}

	now := time.Now().UTC()
	form := &models.Form{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Fields:      fields,
		Style:       style,
		Settings:    settings,
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.forms.Insert(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *FormService) List(ctx context.Context) ([]models.Form, error) {
	return s.forms.FindAll(ctx)
}

func (s *FormService) Get(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// UpdateFormInput is a full replacement of the mutable form state. A nil
// Fields slice keeps the stored field list; nil Style/Settings keep the
// stored presentation.
type UpdateFormInput struct {
	Title       string
	Description string
	Fields      []models.FormField
	IsPublished bool
	Style       *models.FormStyle
	Settings    *models.FormSettings
}

// Update replaces the form's content and refreshes updatedAt. Publishing and
// unpublishing happen here via IsPublished.
func (s *FormService) Update(ctx context.Context, id string, in UpdateFormInput) (*models.Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Fields != nil {
		if err := validateFields(in.Fields); err != nil {
			return nil, err
		}
		form.Fields = in.Fields
	}

	form.Title = in.Title
	if form.Title == "" {
		form.Title = "Untitled Form"
	}
	form.Description = in.Description
	form.IsPublished = in.IsPublished
	if in.Style != nil {
		form.Style = *in.Style
	}
	if in.Settings != nil {
		form.Settings = *in.Settings
	}
	form.UpdatedAt = time.Now().UTC()

	ok, err := s.forms.Update(ctx, form)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// Delete removes the form, then every submission referencing it. The two
// steps are not transactional across collections; the submission sweep is
// idempotent, so a retry after a crash between steps finishes the cleanup.
func (s *FormService) Delete(ctx context.Context, id string) error {
	ok, err := s.forms.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFormNotFound
	}
	n, err := s.subs.DeleteByFormID(ctx, id)
	if err != nil {
		// The form is already gone; report but surface the error so the
		// caller can retry the sweep.
		return fmt.Errorf("form %s deleted, submission cleanup failed: %w", id, err)
	}
	if n > 0 {
		log.Printf("deleted form %s and %d submissions", id, n)
	}
	return nil
}

// validateFields enforces the structural invariants: known widget type,
// label present, ids unique within the form.
func validateFields(fields []models.FormField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !models.ValidFieldType(f.Type) {
			return invalid(fmt.Sprintf("Unknown field type %q", f.Type))
		}
		if f.Label == "" {
			return invalid("Field label is required")
		}
		if f.ID == "" {
			return invalid("Field id is required")
		}
		if seen[f.ID] {
			return invalid(fmt.Sprintf("Duplicate field id %q", f.ID))
		}
		seen[f.ID] = true
	}
	return nil
}
