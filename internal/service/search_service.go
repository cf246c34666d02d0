package service

import (
	"context"

	"github.com/parisxmas/formbox/internal/models"
	"github.com/parisxmas/formbox/internal/repository"
)

const defaultSearchLimit = 20

// SearchService runs filtered, paginated queries across a form's
// submissions. Filters address answers by field id; the text query matches
// against the indexed search text of each submission.
type SearchService struct {
	forms repository.FormStore
	subs  repository.SubmissionStore
}

func NewSearchService(forms repository.FormStore, subs repository.SubmissionStore) *SearchService {
	return &SearchService{forms: forms, subs: subs}
}

type SearchRequest struct {
	FormID  string                                 `json:"formId"`
	Filters map[string]repository.FilterDescriptor `json:"filters"`
	Text    string                                 `json:"textQuery"`
	Skip    int64                                  `json:"skip"`
	Limit   int64                                  `json:"limit"`
}

type SearchResult struct {
	Docs  []models.Submission `json:"docs"`
	Total int64               `json:"total"`
	Skip  int64               `json:"skip"`
	Limit int64               `json:"limit"`
}

func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if req.FormID == "" {
		return nil, invalid("formId is required")
	}
	form, err := s.forms.FindByID(ctx, req.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}
	if req.Skip < 0 {
		req.Skip = 0
	}

	subs, total, err := s.subs.Search(ctx, repository.SubmissionQuery{
		FormID:  req.FormID,
		Filters: req.Filters,
		Text:    req.Text,
		Skip:    req.Skip,
		Limit:   req.Limit,
	})
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return &SearchResult{Docs: subs, Total: total, Skip: req.Skip, Limit: req.Limit}, nil
}
