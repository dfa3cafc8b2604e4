package funnel

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/types"
)

// Recorder owns the ApplicationMetric invariants: booleans only move
// false -> true, interview implies response, and time-to-response is written
// exactly once. The state machine drives it, but it is usable on its own
// (attribution also ensures metrics through it).
type Recorder struct {
	store Store
}

// NewRecorder creates a Recorder over a store. Inside a transition the store
// is transaction-bound, so the merge commits or rolls back with the status.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Ensure creates the metric for an application if it does not exist yet.
// Idempotent: at most one metric ever exists per application.
func (r *Recorder) Ensure(ctx context.Context, applicationID uuid.UUID) (*types.ApplicationMetric, error) {
	return r.store.GetOrCreateMetric(ctx, applicationID)
}

// Apply merges a funnel event into the application's metric, creating the
// metric first if needed. The merge is monotonic, so repeated or out-of-order
// events never erase an already-observed fact: a late "rejected" cannot drop
// a time-to-response captured at "interview", and cannot flip
// interview_granted back to false.
func (r *Recorder) Apply(ctx context.Context, applicationID uuid.UUID, ev types.FunnelEvent) (*types.ApplicationMetric, error) {
	if _, err := r.store.GetOrCreateMetric(ctx, applicationID); err != nil {
		return nil, err
	}
	return r.store.ApplyFunnelEvent(ctx, applicationID, ev)
}
