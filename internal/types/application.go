// Package types provides the domain types shared across the application tracker engine.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is the funnel stage an application currently occupies.
type Status string

// Funnel statuses, in funnel order.
const (
	// StatusPlanned is a saved job the candidate has not applied to yet
	StatusPlanned Status = "planned"
	// StatusApplied means the application has been submitted
	StatusApplied Status = "applied"
	// StatusInterview means the company granted an interview
	StatusInterview Status = "interview"
	// StatusOffer means the company extended an offer
	StatusOffer Status = "offer"
	// StatusRejected means the company declined the application
	StatusRejected Status = "rejected"
)

// AllStatuses lists every valid funnel status.
var AllStatuses = []Status{StatusPlanned, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is one of the enumerated funnel statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// ReachedApplied reports whether s is "applied" or a later funnel stage.
func (s Status) ReachedApplied() bool {
	return s.Valid() && s != StatusPlanned
}

// Responded reports whether s implies the company responded (interview or offer).
func (s Status) Responded() bool {
	return s == StatusInterview || s == StatusOffer
}

// Application represents a tracked job application moving through the funnel.
// Applications are never physically deleted; DeletedAt marks soft deletion and
// soft-deleted rows are excluded from all reads.
type Application struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	JobTitle     string     `json:"job_title"`
	Company      string     `json:"company"`
	Status       Status     `json:"status"`
	AppliedAt    *time.Time `json:"applied_at,omitempty"` // set on first transition into "applied"
	JobPostingID *uuid.UUID `json:"job_posting_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Deleted reports whether the application has been soft-deleted.
func (a *Application) Deleted() bool {
	return a.DeletedAt != nil
}

// ApplicationWithMetric pairs an application with its funnel metric, if one
// exists yet. This is the input unit for the analytics aggregator.
type ApplicationWithMetric struct {
	Application Application        `json:"application"`
	Metric      *ApplicationMetric `json:"metric,omitempty"`
}
