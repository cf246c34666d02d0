package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

const (
	ExportJSON = "json"
	ExportCSV  = "csv"
)

// ExportService renders a form's full submission set as a downloadable
// payload. Everything is assembled in memory; the expected volume is a
// single organization's forms.
type ExportService struct {
	forms repository.FormStore
	subs  repository.SubmissionStore
}

func NewExportService(forms repository.FormStore, subs repository.SubmissionStore) *ExportService {
	return &ExportService{forms: forms, subs: subs}
}

// ExportResult is the wire envelope: Data is the submission list for JSON
// and the rendered document for CSV.
type ExportResult struct {
	Format     string    `json:"format"`
	FileName   string    `json:"fileName"`
	Data       any       `json:"data"`
	ExportedAt time.Time `json:"exportedAt"`
}

func (s *ExportService) Export(ctx context.Context, formID, format string) (*ExportResult, error) {
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportCSV {
		return nil, invalid(fmt.Sprintf("Unknown export format %q", format))
	}

	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	subs, err := s.subs.FindByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Format:     format,
		FileName:   form.Title + "_responses." + format,
		ExportedAt: time.Now().UTC(),
	}
	if format == ExportCSV {
		result.Data = RenderCSV(form, subs)
	} else {
		result.Data = subs
	}
	return result, nil
}

// RenderCSV builds the export document: a header of "Submission ID",
// "Submitted At", then the field labels in form order; one row per
// submission with values looked up by field id. Every cell is quoted, which
// is why this does not go through encoding/csv (it quotes minimally).
func RenderCSV(form *models.Form, subs []models.Submission) string {
	header := make([]string, 0, len(form.Fields)+2)
	header = append(header, "Submission ID", "Submitted At")
	for _, f := range form.Fields {
		header = append(header, f.Label)
	}

	lines := make([]string, 0, len(subs)+1)
	lines = append(lines, csvLine(header))
	for _, sub := range subs {
		row := make([]string, 0, len(form.Fields)+2)
		row = append(row, sub.ID, sub.SubmittedAt.UTC().Format(time.RFC3339))
		for _, f := range form.Fields {
			row = append(row, csvCell(sub.Data[f.ID]))
		}
		lines = append(lines, csvLine(row))
	}
	return strings.Join(lines, "\n")
}

// csvCell renders one answer. Absent values become the empty string; zero
// and false render as "0" and "false". Checkbox answers arrive as lists and
// join with commas, matching how the builder displayed them.
func csvCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
