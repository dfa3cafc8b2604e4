package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/application-tracker/internal/generate"
	"github.com/jonathan/application-tracker/internal/types"
)

// CoverLetterRequest optionally overrides the notes fed into the prompt.
type CoverLetterRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CoverLetterResponse represents a generated cover letter draft
type CoverLetterResponse struct {
	CoverLetter string `json:"cover_letter"`
}

// InterviewQuestionsRequest configures question generation
type InterviewQuestionsRequest struct {
	Count int `json:"count,omitempty"`
}

// InterviewQuestionsResponse represents generated interview prep questions
type InterviewQuestionsResponse struct {
	Questions []generate.InterviewQuestion `json:"questions"`
	Count     int                          `json:"count"`
}

// handleCoverLetter drafts a cover letter for the application.
func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Generation is not configured; set an API key")
		return
	}

	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req CoverLetterRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	inputs := s.generationInputs(r, app)
	if req.Notes != nil {
		inputs.Notes = *req.Notes
	}

	letter, err := s.generator.CoverLetter(r.Context(), inputs)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Generation failed: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, CoverLetterResponse{CoverLetter: letter})
}

// handleInterviewQuestions generates interview prep questions for the
// application.
func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Generation is not configured; set an API key")
		return
	}

	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req InterviewQuestionsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	questions, err := s.generator.InterviewQuestions(r.Context(), s.generationInputs(r, app), req.Count)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Generation failed: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, InterviewQuestionsResponse{
		Questions: questions,
		Count:     len(questions),
	})
}

// generationInputs assembles prompt inputs from the application and, when it
// is linked to a cached posting, the posting text. A missing posting is not
// an error; the prompt just carries less context.
func (s *Server) generationInputs(r *http.Request, app *types.Application) generate.Inputs {
	inputs := generate.Inputs{
		JobTitle: app.JobTitle,
		Company:  app.Company,
	}
	if app.Notes != nil {
		inputs.Notes = *app.Notes
	}

	if app.JobPostingID != nil {
		posting, err := s.db.GetJobPostingByID(r.Context(), *app.JobPostingID)
		if err == nil && posting.CleanedText != nil {
			inputs.PostingText = *posting.CleanedText
		}
	}
	return inputs
}
