package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

func newSubmissionFixture(t *testing.T) (*SubmissionService, *FormService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewSubmissionService(store.Submissions(), store), NewFormService(store, store.Submissions()), store
}

func publishedForm(t *testing.T, forms *FormService, fields ...models.FormField) *models.Form {
	t.Helper()
	ctx := context.Background()
	form, err := forms.Create(ctx, CreateFormInput{Title: "Survey", Fields: fields})
	require.NoError(t, err)
	form, err = forms.Update(ctx, form.ID, UpdateFormInput{Title: form.Title, Fields: fields, IsPublished: true})
	require.NoError(t, err)
	return form
}

func TestSubmitUnknownForm(t *testing.T) {
	subs, _, _ := newSubmissionFixture(t)

	_, err := subs.Create(context.Background(), "nope", map[string]any{"a": 1}, nil, "", "")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSubmitUnpublishedForm(t *testing.T) {
	subs, forms, _ := newSubmissionFixture(t)
	ctx := context.Background()

	form, err := forms.Create(ctx, CreateFormInput{Title: "Draft"})
	require.NoError(t, err)

	_, err = subs.Create(ctx, form.ID, map[string]any{"a": 1}, nil, "", "")
	assert.ErrorIs(t, err, ErrFormNotPublished)
}

// The gate is publication alone: once published, any well-formed answer map
// is accepted, including ones that skip required fields.
func TestSubmitPublishGate(t *testing.T) {
	subs, forms, _ := newSubmissionFixture(t)
	ctx := context.Background()

	form := publishedForm(t, forms,
		models.FormField{ID: "name", Type: models.FieldText, Label: "Name", Required: true},
	)

	for _, data := range []map[string]any{
		{"name": "Ada"},
		{},
		nil,
		{"unknown": "value"},
	} {
		sub, err := subs.Create(ctx, form.ID, data, nil, "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, sub.ID)
		assert.NotNil(t, sub.Data)
	}

	// Unpublishing closes the gate again.
	_, err := forms.Update(ctx, form.ID, UpdateFormInput{Title: form.Title, IsPublished: false})
	require.NoError(t, err)
	_, err = subs.Create(ctx, form.ID, map[string]any{"name": "Ada"}, nil, "", "")
	assert.ErrorIs(t, err, ErrFormNotPublished)
}

func TestSubmitStoresDataVerbatim(t *testing.T) {
	subs, forms, _ := newSubmissionFixture(t)
	ctx := context.Background()

	form := publishedForm(t, forms)
	data := map[string]any{
		"text":    "hello",
		"number":  float64(0),
		"checked": false,
		"choices": []any{"a", "b"},
		"untyped": nil,
	}
	sub, err := subs.Create(ctx, form.ID, data, nil, "203.0.113.9", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, data, sub.Data)
	assert.Equal(t, "203.0.113.9", sub.IPAddress)
	assert.Equal(t, "test-agent", sub.UserAgent)
	assert.False(t, sub.SubmittedAt.IsZero())
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	subs, forms, store := newSubmissionFixture(t)
	ctx := context.Background()

	form := publishedForm(t, forms)
	for i := 0; i < 3; i++ {
		_, err := subs.Create(ctx, form.ID, map[string]any{"i": i}, nil, "", "")
		require.NoError(t, err)
	}

	got, err := subs.List(ctx, form.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].SubmittedAt.Before(got[i].SubmittedAt))
	}

	count, err := store.Submissions().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestBuildSearchText(t *testing.T) {
	got := buildSearchText(map[string]any{
		"b": "World",
		"a": "Hello",
		"c": []any{"X", 2},
		"d": nil,
	})
	assert.Equal(t, "hello world x 2", got)
	assert.Empty(t, buildSearchText(nil))
}
