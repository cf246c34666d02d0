package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

func searchFixture(t *testing.T) (*SearchService, *models.Form) {
	t.Helper()
	store := repository.NewMemoryStore()
	forms := NewFormService(store, store.Submissions())
	subs := NewSubmissionService(store.Submissions(), store)
	ctx := context.Background()

	form := publishedForm(t, forms,
		models.FormField{ID: "name", Type: models.FieldText, Label: "Name"},
		models.FormField{ID: "rating", Type: models.FieldNumber, Label: "Rating"},
	)
	for _, data := range []map[string]any{
		{"name": "Ada Lovelace", "rating": float64(5)},
		{"name": "Grace Hopper", "rating": float64(4)},
		{"name": "Alan Turing", "rating": float64(5)},
	} {
		_, err := subs.Create(ctx, form.ID, data, nil, "", "")
		require.NoError(t, err)
	}
	return NewSearchService(store, store.Submissions()), form
}

func TestSearchRequiresForm(t *testing.T) {
	svc, _ := searchFixture(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, SearchRequest{})
	assert.True(t, IsValidation(err))

	_, err = svc.Search(ctx, SearchRequest{FormID: "nope"})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSearchByFieldValue(t *testing.T) {
	svc, form := searchFixture(t)

	result, err := svc.Search(context.Background(), SearchRequest{
		FormID: form.ID,
		Filters: map[string]repository.FilterDescriptor{
			"rating": {Value: float64(5)},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)
	assert.Len(t, result.Docs, 2)
}

func TestSearchByText(t *testing.T) {
	svc, form := searchFixture(t)

	result, err := svc.Search(context.Background(), SearchRequest{
		FormID: form.ID,
		Text:   "LOVELACE",
	})
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	assert.Equal(t, "Ada Lovelace", result.Docs[0].Data["name"])
}

func TestSearchRange(t *testing.T) {
	svc, form := searchFixture(t)

	result, err := svc.Search(context.Background(), SearchRequest{
		FormID: form.ID,
		Filters: map[string]repository.FilterDescriptor{
			"rating": {Min: float64(5)},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)
}

func TestSearchPagination(t *testing.T) {
	svc, form := searchFixture(t)
	ctx := context.Background()

	page, err := svc.Search(ctx, SearchRequest{FormID: form.ID, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Docs, 2)
	assert.EqualValues(t, 2, page.Limit)

	rest, err := svc.Search(ctx, SearchRequest{FormID: form.ID, Skip: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, rest.Total)
	assert.Len(t, rest.Docs, 1)

	// The default page size applies when the request leaves limit unset.
	all, err := svc.Search(ctx, SearchRequest{FormID: form.ID})
	require.NoError(t, err)
	assert.EqualValues(t, defaultSearchLimit, all.Limit)
	assert.Len(t, all.Docs, 3)
}
