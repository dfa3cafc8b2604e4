package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationMetric is the per-application record of observed funnel facts.
// There is at most one metric per application, created lazily on the first
// "applied" transition or the first resume-version link.
//
// Invariants maintained by the metrics recorder:
//   - ResponseReceived and InterviewGranted only move false -> true
//   - InterviewGranted implies ResponseReceived
//   - TimeToResponseHours is set at most once and never overwritten
type ApplicationMetric struct {
	ID                  uuid.UUID  `json:"id"`
	ApplicationID       uuid.UUID  `json:"application_id"`
	ResponseReceived    bool       `json:"response_received"`
	InterviewGranted    bool       `json:"interview_granted"`
	TimeToResponseHours *int       `json:"time_to_response_hours,omitempty"`
	ResumeVersionID     *uuid.UUID `json:"resume_version_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FunnelEvent describes observed facts to merge into a metric. The merge is
// monotonic: booleans only flip false -> true and ElapsedHours is stored only
// while TimeToResponseHours is still null, so repeated or out-of-order events
// can never erase an already-observed fact.
type FunnelEvent struct {
	ResponseReceived bool
	InterviewGranted bool
	ElapsedHours     *int
}
