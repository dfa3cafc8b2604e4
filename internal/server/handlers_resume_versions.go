package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/application-tracker/internal/server/middleware"
	"github.com/jonathan/application-tracker/internal/types"
)

// ListResumeVersionsResponse represents the response for listing resume versions
type ListResumeVersionsResponse struct {
	ResumeVersions []types.ResumeVersion `json:"resume_versions"`
	Count          int                   `json:"count"`
}

// SuggestionResponse carries the attribution heuristic's pick. Suggestion is
// null when the owner has no resume versions.
type SuggestionResponse struct {
	Suggestion *types.ResumeVersion `json:"suggestion"`
}

// handleCreateResumeVersion records a new resume version.
func (s *Server) handleCreateResumeVersion(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateResumeVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	version, err := s.db.CreateResumeVersion(r.Context(), userID, &req)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, version)
}

// handleListResumeVersions lists the owner's resume versions.
func (s *Server) handleListResumeVersions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	versions, err := s.db.ListResumeVersions(r.Context(), userID)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListResumeVersionsResponse{
		ResumeVersions: versions,
		Count:          len(versions),
	})
}

// handleResumeSuggestion returns the heuristic's best guess for which resume
// version the application was sent with. The suggestion is advisory; nothing
// is written.
func (s *Server) handleResumeSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	suggestion, err := s.resolver.SuggestFor(r.Context(), app.ID, userID)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SuggestionResponse{Suggestion: suggestion})
}

// handleLinkResumeVersion records a user-confirmed attribution of the
// application to a resume version.
func (s *Server) handleLinkResumeVersion(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req types.LinkResumeVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The linked version must exist and belong to the same owner.
	if _, err := s.db.GetResumeVersionForOwner(r.Context(), req.ResumeVersionID, userID); err != nil {
		s.errorFor(w, err)
		return
	}

	metric, err := s.resolver.Link(r.Context(), app.ID, req.ResumeVersionID)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, metric)
}
