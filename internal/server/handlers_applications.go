package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/server/middleware"
	"github.com/jonathan/application-tracker/internal/types"
)

// UpdateApplicationRequest represents a partial update of an application's
// descriptive fields. Status changes go through the transition endpoint.
type UpdateApplicationRequest struct {
	JobTitle     *string    `json:"job_title,omitempty"`
	Company      *string    `json:"company,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	JobPostingID *uuid.UUID `json:"job_posting_id,omitempty"`
}

// ListApplicationsResponse represents the response for listing applications
type ListApplicationsResponse struct {
	Applications []types.Application `json:"applications"`
	Count        int                 `json:"count"`
}

// handleCreateApplication tracks a new application in the "planned" status.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app, err := s.db.CreateApplication(r.Context(), userID, &req)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleListApplications lists the owner's applications.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	apps, err := s.db.ListApplications(r.Context(), userID, includeDeleted)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListApplicationsResponse{
		Applications: apps,
		Count:        len(apps),
	})
}

// handleGetApplication retrieves a single application by ID.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateApplication updates an application's descriptive fields.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.JobTitle != nil {
		if *req.JobTitle == "" {
			s.errorResponse(w, http.StatusBadRequest, "job_title cannot be empty")
			return
		}
		app.JobTitle = *req.JobTitle
	}
	if req.Company != nil {
		if *req.Company == "" {
			s.errorResponse(w, http.StatusBadRequest, "company cannot be empty")
			return
		}
		app.Company = *req.Company
	}
	if req.Notes != nil {
		app.Notes = req.Notes
	}
	if req.JobPostingID != nil {
		app.JobPostingID = req.JobPostingID
	}

	updated, err := s.db.UpdateApplication(r.Context(), app)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteApplication soft-deletes an application.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	if err := s.db.SoftDeleteApplication(r.Context(), app.ID); err != nil {
		s.errorFor(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTransition moves an application to a new funnel status and records
// the derived metric effects atomically.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	app, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req types.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.machine.Transition(r.Context(), app.ID, req.Status)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// ownedApplication loads the application from the {id} path segment and
// verifies it belongs to the authenticated user. Foreign applications read
// as not found so IDs are not probeable.
func (s *Server) ownedApplication(w http.ResponseWriter, r *http.Request) (*types.Application, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	appID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return nil, false
	}

	app, err := s.db.GetApplication(r.Context(), appID)
	if err != nil {
		s.errorFor(w, err)
		return nil, false
	}
	if app.OwnerID != userID {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return nil, false
	}
	return app, true
}
