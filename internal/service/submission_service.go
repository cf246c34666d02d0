package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

// SubmissionService accepts responses for published forms and lists them.
type SubmissionService struct {
	subs  repository.SubmissionStore
	forms repository.FormStore
}

func NewSubmissionService(subs repository.SubmissionStore, forms repository.FormStore) *SubmissionService {
	return &SubmissionService{subs: subs, forms: forms}
}

// Create verifies the form exists and is published, then stores the answers
// verbatim. Field-level validation rules stay client-side; any well-formed
// data map is accepted once the publish gate passes.
func (s *SubmissionService) Create(ctx context.Context, formID string, data map[string]any, fileIDs []string, ipAddress, userAgent string) (*models.Submission, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if !form.IsPublished {
		return nil, ErrFormNotPublished
	}

	if data == nil {
		data = map[string]any{}
	}
	sub := &models.Submission{
		FormID:      formID,
		Data:        data,
		Files:       fileIDs,
		SubmittedAt: time.Now().UTC(),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		SearchText:  buildSearchText(data),
	}
	if err := s.subs.Insert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns the form's submissions newest first, the full set in one
// response.
func (s *SubmissionService) List(ctx context.Context, formID string) ([]models.Submission, error) {
	return s.subs.FindByFormID(ctx, formID)
}

func (s *SubmissionService) CountByForm(ctx context.Context, formID string) (int64, error) {
	return s.subs.CountByFormID(ctx, formID)
}

// buildSearchText flattens the answer values into one lowercased string so
// text search is a single field match. Keys are sorted for a stable result.
func buildSearchText(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		switch v := data[k].(type) {
		case nil:
			continue
		case []any:
			for _, item := range v {
				b.WriteString(strings.ToLower(fmt.Sprint(item)))
				b.WriteByte(' ')
			}
		default:
			b.WriteString(strings.ToLower(fmt.Sprint(v)))
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}
