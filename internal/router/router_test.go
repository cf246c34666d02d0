package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/formbox/internal/handler"
	"github.com/parisxmas/formbox/internal/repository"
	"github.com/parisxmas/formbox/internal/service"
)

func newTestServer(t *testing.T, jwtSecret string) *httptest.Server {
	t.Helper()
	store := repository.NewMemoryStore()

	authSvc := service.NewAuthService(store.Users(), jwtSecret)
	formSvc := service.NewFormService(store, store.Submissions())
	subSvc := service.NewSubmissionService(store.Submissions(), store)
	analyticsSvc := service.NewAnalyticsService(store, store.Submissions())
	exportSvc := service.NewExportService(store, store.Submissions())
	searchSvc := service.NewSearchService(store, store.Submissions())
	fileSvc := service.NewFileService(store.Files(), store)

	r := New(jwtSecret, Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Form:       handler.NewFormHandler(formSvc),
		Submission: handler.NewSubmissionHandler(subSvc, fileSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc, exportSvc),
		Search:     handler.NewSearchHandler(searchSvc),
		Dashboard:  handler.NewDashboardHandler(formSvc, subSvc),
		File:       handler.NewFileHandler(fileSvc),
		Admin:      handler.NewAdminHandler(store, store.Submissions(), store.Files()),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestFormLifecycle(t *testing.T) {
	srv := newTestServer(t, "")

	// Create a draft. isPublished from the request is ignored.
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/forms", map[string]any{
		"title":       "Feedback",
		"isPublished": true,
		"fields": []map[string]any{
			{"id": "name", "type": "text", "label": "Name"},
			{"id": "rating", "type": "number", "label": "Rating"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	formID := created["id"].(string)
	assert.Equal(t, false, created["isPublished"])

	// Submitting a draft is refused.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/forms/"+formID+"/submit", map[string]any{
		"data": map[string]any{"name": "Ada"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Form is not published", body["error"])

	// Publish.
	resp, updated := doJSON(t, http.MethodPut, srv.URL+"/api/forms/"+formID, map[string]any{
		"title": "Feedback",
		"fields": []map[string]any{
			{"id": "name", "type": "text", "label": "Name"},
			{"id": "rating", "type": "number", "label": "Rating"},
		},
		"isPublished": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, updated["isPublished"])

	// Submit twice.
	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/forms/"+formID+"/submit", map[string]any{
			"data": map[string]any{"name": fmt.Sprintf("user-%d", i), "rating": 5},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Form submitted successfully", body["message"])
		assert.NotEmpty(t, body["submissionId"])
	}

	// Submissions come back as a bare array, newest first.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/forms/"+formID+"/submissions", nil)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	var subs []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&subs))
	assert.Len(t, subs, 2)

	// Analytics sees both.
	resp, stats := doJSON(t, http.MethodGet, srv.URL+"/api/forms/"+formID+"/analytics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, stats["totalSubmissions"])
	assert.EqualValues(t, 100, stats["completionRate"])

	// Export as CSV.
	resp, export := doJSON(t, http.MethodGet, srv.URL+"/api/forms/"+formID+"/export?format=csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "csv", export["format"])
	assert.Equal(t, "Feedback_responses.csv", export["fileName"])
	assert.Contains(t, export["data"], `"Submission ID","Submitted At","Name","Rating"`)

	// Delete cascades.
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/forms/"+formID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Form deleted successfully", body["message"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/forms/"+formID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Form not found", body["error"])
}

func TestCreateFormFieldsMustBeArray(t *testing.T) {
	srv := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/forms", map[string]any{
		"title":  "Broken",
		"fields": "not-an-array",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Fields must be an array", body["error"])
}

func TestSubmitUnknownForm(t *testing.T) {
	srv := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/forms/nope/submit", map[string]any{
		"data": map[string]any{},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Form not found", body["error"])
}

func TestDashboardAndAdminStats(t *testing.T) {
	srv := newTestServer(t, "")

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/forms", map[string]any{"title": "A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	formID := created["id"].(string)
	_, _ = doJSON(t, http.MethodPut, srv.URL+"/api/forms/"+formID, map[string]any{
		"title": "A", "isPublished": true,
	})
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/forms/"+formID+"/submit", map[string]any{
		"data": map[string]any{"x": 1},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, dash := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, dash["formCount"])
	assert.EqualValues(t, 1, dash["submissionCount"])

	resp, stats := doJSON(t, http.MethodGet, srv.URL+"/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, stats["formCount"])
	assert.NotEmpty(t, stats["indexes"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, "test-secret")

	// Builder routes are closed without a token.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/forms", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])

	// Registration issues a token that opens them.
	resp, reg := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", map[string]any{
		"email":    "ada@example.com",
		"password": "hunter22",
		"name":     "Ada",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := reg["token"].(string)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/forms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)

	// Viewing and submitting stay public even with auth enabled.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/forms/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/forms/nope/submit", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t, "test-secret")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", map[string]any{
		"email":    "grace@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, login := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", map[string]any{
		"email":    "grace@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := login["token"].(string)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	var me map[string]any
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "grace@example.com", me["email"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", map[string]any{
		"email":    "grace@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/forms", map[string]any{
		"title": "S",
		"fields": []map[string]any{
			{"id": "name", "type": "text", "label": "Name"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	formID := created["id"].(string)
	_, _ = doJSON(t, http.MethodPut, srv.URL+"/api/forms/"+formID, map[string]any{
		"title": "S", "isPublished": true,
		"fields": []map[string]any{
			{"id": "name", "type": "text", "label": "Name"},
		},
	})
	for _, name := range []string{"Ada Lovelace", "Grace Hopper"} {
		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/forms/"+formID+"/submit", map[string]any{
			"data": map[string]any{"name": name},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, result := doJSON(t, http.MethodPost, srv.URL+"/api/search", map[string]any{
		"formId":    formID,
		"textQuery": "lovelace",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, result["total"])
}
