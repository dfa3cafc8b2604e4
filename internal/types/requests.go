package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateApplicationRequest represents the request to track a new application.
// New applications always start in the "planned" status.
type CreateApplicationRequest struct {
	JobTitle     string     `json:"job_title" validate:"required,min=1"`
	Company      string     `json:"company" validate:"required,min=1"`
	JobPostingID *uuid.UUID `json:"job_posting_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// TransitionRequest represents a request to move an application to a new status.
type TransitionRequest struct {
	Status Status `json:"status" validate:"required"`
}

// LinkResumeVersionRequest represents an explicit, user-confirmed attribution
// of an application to a resume version.
type LinkResumeVersionRequest struct {
	ResumeVersionID uuid.UUID `json:"resume_version_id" validate:"required"`
}

// CreateResumeVersionRequest represents the request to record a resume version.
type CreateResumeVersionRequest struct {
	ResumeID uuid.UUID `json:"resume_id" validate:"required"`
	Title    string    `json:"title" validate:"required,min=1"`
	Tags     []string  `json:"tags,omitempty"`
}

// IngestPostingRequest represents a request to save a job posting from a URL.
type IngestPostingRequest struct {
	URL        string `json:"url" validate:"required,url"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TransitionRequest. The status must also be one of
// the enumerated funnel statuses; anything else is rejected before any write.
func (r *TransitionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LinkResumeVersionRequest using the validator.
func (r *LinkResumeVersionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateResumeVersionRequest using the validator.
func (r *CreateResumeVersionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the IngestPostingRequest using the validator.
func (r *IngestPostingRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
