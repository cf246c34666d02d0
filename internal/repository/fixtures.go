package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/formbox/internal/models"
)

// SeedDemo loads the demo fixture set into a memory store: one published
// feedback form with a few submissions. This replaces the old client-side
// habit of silently substituting sample data on fetch failure — demo data is
// now only ever served when explicitly configured.
func SeedDemo(store *MemoryStore) error {
	ctx := context.Background()
	now := time.Now().UTC()

	form := &models.Form{
		ID:          uuid.New().String(),
		Title:       "Customer Feedback Survey",
		Description: "Help us improve our service",
		Fields: []models.FormField{
			{ID: "1", Type: models.FieldText, Label: "Full Name", Required: true},
			{ID: "2", Type: models.FieldEmail, Label: "Email", Required: true},
			{ID: "3", Type: models.FieldSelect, Label: "Satisfaction", Options: []string{
				"Very Satisfied", "Satisfied", "Neutral", "Dissatisfied",
			}},
			{ID: "4", Type: models.FieldTextarea, Label: "Comments"},
		},
		Style:       models.DefaultStyle(),
		Settings:    models.DefaultSettings(),
		IsPublished: true,
		CreatedAt:   now.Add(-72 * time.Hour),
		UpdatedAt:   now.Add(-72 * time.Hour),
	}
	if err := store.Insert(ctx, form); err != nil {
		return err
	}

	subs := store.Submissions()
	demo := []struct {
		data map[string]any
		age  time.Duration
	}{
		{map[string]any{"1": "John Doe", "2": "john@example.com", "3": "Very Satisfied", "4": "Great service!"}, 48 * time.Hour},
		{map[string]any{"1": "Jane Smith", "2": "jane@example.com", "3": "Satisfied", "4": "Good experience overall"}, 24 * time.Hour},
		{map[string]any{"1": "Bob Johnson", "2": "bob@example.com", "3": "Very Satisfied", "4": "Excellent!"}, 0},
	}
	for _, d := range demo {
		sub := &models.Submission{
			FormID:      form.ID,
			Data:        d.data,
			SubmittedAt: now.Add(-d.age),
		}
		if err := subs.Insert(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}
