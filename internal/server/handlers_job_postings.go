package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/fetch"
	"github.com/jonathan/application-tracker/internal/ingestion"
	"github.com/jonathan/application-tracker/internal/types"
)

// handleIngestPosting fetches a job posting URL, extracts its content, and
// upserts it into the posting cache keyed by URL.
func (s *Server) handleIngestPosting(w http.ResponseWriter, r *http.Request) {
	var req types.IngestPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	fetcher := fetch.NewFetcher(
		fetch.WithBrowserFallback(req.UseBrowser || s.useBrowser),
		fetch.WithVerbose(s.verbose),
	)
	ingestor := ingestion.NewIngestor(fetcher, s.llmClient)
	ingestor.SetVerbose(s.verbose)

	input, err := ingestor.Ingest(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to ingest posting: "+err.Error())
		return
	}

	posting, err := s.db.UpsertJobPosting(r.Context(), input)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, posting)
}

// handleGetJobPosting retrieves a cached job posting by its ID
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	postingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID")
		return
	}

	posting, err := s.db.GetJobPostingByID(r.Context(), postingID)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
