package service

import (
	"context"
	"fmt"
	"time"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

// AnalyticsService derives aggregate statistics from a form's submissions.
type AnalyticsService struct {
	forms repository.FormStore
	subs  repository.SubmissionStore
}

func NewAnalyticsService(forms repository.FormStore, subs repository.SubmissionStore) *AnalyticsService {
	return &AnalyticsService{forms: forms, subs: subs}
}

func (s *AnalyticsService) Get(ctx context.Context, formID string) (*models.FormAnalytics, error) {
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
	return Compute(form, subs, time.Now().UTC()), nil
}

// Compute aggregates the submission set against the form definition. All
// time buckets use UTC boundaries: calendar day for "today", Monday 00:00 of
// the current ISO week for "this week", calendar month for "this month".
func Compute(form *models.Form, subs []models.Submission, now time.Time) *models.FormAnalytics {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := dayStart.AddDate(0, 0, -mondayOffset(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	a := &models.FormAnalytics{
		FormID:           form.ID,
		TotalSubmissions: len(subs),
		FieldAnalytics:   make([]models.FieldAnalytics, 0, len(form.Fields)),
		SubmissionTrend:  make(map[string]int),
	}
	// Deliberately coarse: 100 when anything came in, 0 otherwise. There is
	// no per-submission completeness signal to do better with.
	if len(subs) > 0 {
		a.CompletionRate = 100
	}

	for _, sub := range subs {
		t := sub.SubmittedAt.UTC()
		if !t.Before(dayStart) {
			a.SubmissionsToday++
		}
		if !t.Before(weekStart) {
			a.SubmissionsThisWeek++
		}
		if !t.Before(monthStart) {
			a.SubmissionsThisMonth++
		}
		a.SubmissionTrend[t.Format("2006-01-02")]++
	}

	for _, field := range form.Fields {
		a.FieldAnalytics = append(a.FieldAnalytics, fieldStats(field, subs))
	}
	return a
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// fieldStats counts responses for one field and finds the most common value.
// A value counts as a response unless it is absent or the empty string;
// zero and false are responses. Ties on the mode go to the value seen first.
func fieldStats(field models.FormField, subs []models.Submission) models.FieldAnalytics {
	stats := models.FieldAnalytics{
		FieldID:    field.ID,
		FieldLabel: field.Label,
		FieldType:  field.Type,
	}

	counts := make(map[string]int)
	order := []string{}
	for _, sub := range subs {
		v, ok := sub.Data[field.ID]
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		stats.Responses++

		key := fmt.Sprint(v)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	best := 0
	for _, key := range order {
		if counts[key] > best {
			best = counts[key]
			stats.MostCommonValue = key
		}
	}
	return stats
}
