package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/application-tracker/internal/server/middleware"
)

// authedRequest builds a request that already passed the auth middleware.
func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
}

func TestHandleHealth(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()

	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleCreateApplication_NoAuthContext(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(`{}`))

	s.handleCreateApplication(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateApplication_InvalidBody(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()

	s.handleCreateApplication(rec, authedRequest(http.MethodPost, "/applications", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateApplication_ValidationFailure(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()

	// Missing company.
	s.handleCreateApplication(rec, authedRequest(http.MethodPost, "/applications", `{"job_title":"SRE"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetApplication_InvalidID(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/applications/not-a-uuid", "")
	req.SetPathValue("id", "not-a-uuid")

	s.handleGetApplication(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid application ID")
}

func TestHandleTransition_InvalidID(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/applications/xyz/transition", `{"status":"applied"}`)
	req.SetPathValue("id", "xyz")

	s.handleTransition(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIngestPosting_InvalidBody(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()

	s.handleIngestPosting(rec, authedRequest(http.MethodPost, "/job-postings/ingest", `{`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIngestPosting_InvalidURL(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()

	s.handleIngestPosting(rec, authedRequest(http.MethodPost, "/job-postings/ingest", `{"url":"not a url"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetJobPosting_InvalidID(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/job-postings/abc", "")
	req.SetPathValue("id", "abc")

	s.handleGetJobPosting(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerationHandlers_NotConfigured(t *testing.T) {
	s := &Server{} // no generator wired

	for _, handle := range []http.HandlerFunc{s.handleCoverLetter, s.handleInterviewQuestions} {
		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/cover-letter", "")
		handle(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	}
}
