package funnel

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/types"
)

// Machine validates and applies status transitions, stamping timestamps and
// delegating metric updates to the Recorder. Any status may be reassigned at
// any time (the UI allows manual correction); the derived effects of each
// entry are what stay deterministic.
type Machine struct {
	runner TxRunner
	now    func() time.Time
}

// NewMachine creates a state machine backed by the database.
func NewMachine(database *db.DB) *Machine {
	return &Machine{runner: dbRunner{database: database}, now: time.Now}
}

// newMachine wires an arbitrary runner and clock, for tests.
func newMachine(runner TxRunner, now func() time.Time) *Machine {
	return &Machine{runner: runner, now: now}
}

// Transition moves an application to newStatus and applies the derived metric
// effects atomically with the status write. It returns the updated
// application, a NotFoundError for unknown or soft-deleted ids, and an
// InvalidTransitionError for a status outside the enumerated set.
func (m *Machine) Transition(ctx context.Context, applicationID uuid.UUID, newStatus types.Status) (*types.Application, error) {
	if !newStatus.Valid() {
		return nil, &InvalidTransitionError{Status: newStatus}
	}

	var result *types.Application
	err := m.runner.InTx(ctx, func(s Store) error {
		app, err := s.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}

		now := m.now().UTC()
		rec := NewRecorder(s)

		// First entry into "applied" or any later stage stamps applied_at,
		// keeping the invariant: applied_at is set iff the application has
		// ever reached applied or beyond.
		if newStatus.ReachedApplied() && app.AppliedAt == nil {
			t := now
			app.AppliedAt = &t
			if _, err := rec.Ensure(ctx, app.ID); err != nil {
				return err
			}
		}

		if ev, ok := funnelEvent(app, newStatus, now); ok {
			if _, err := rec.Apply(ctx, app.ID, ev); err != nil {
				return err
			}
		}

		app.Status = newStatus
		updated, err := s.UpdateApplication(ctx, app)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// funnelEvent derives the metric event for entering newStatus. Entering
// "planned" or "applied" carries no event beyond the ensure above.
func funnelEvent(app *types.Application, newStatus types.Status, now time.Time) (types.FunnelEvent, bool) {
	switch newStatus {
	case types.StatusInterview, types.StatusOffer:
		return types.FunnelEvent{
			ResponseReceived: true,
			InterviewGranted: true,
			ElapsedHours:     elapsedHours(app.AppliedAt, now),
		}, true
	case types.StatusRejected:
		return types.FunnelEvent{
			ResponseReceived: true,
			ElapsedHours:     elapsedHours(app.AppliedAt, now),
		}, true
	}
	return types.FunnelEvent{}, false
}

// elapsedHours returns whole hours since appliedAt, or nil when appliedAt is
// not set. The store only persists it while time_to_response_hours is still
// null, so the first observed latency wins permanently.
func elapsedHours(appliedAt *time.Time, now time.Time) *int {
	if appliedAt == nil {
		return nil
	}
	h := int(now.Sub(*appliedAt).Hours())
	if h < 0 {
		h = 0
	}
	return &h
}
