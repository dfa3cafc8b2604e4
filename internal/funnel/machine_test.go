package funnel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/types"
)

// fakeStore is an in-memory Store that mirrors the database's monotonic
// metric merge.
type fakeStore struct {
	apps    map[uuid.UUID]*types.Application
	metrics map[uuid.UUID]*types.ApplicationMetric
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:    make(map[uuid.UUID]*types.Application),
		metrics: make(map[uuid.UUID]*types.ApplicationMetric),
	}
}

func (f *fakeStore) GetApplicationForUpdate(_ context.Context, id uuid.UUID) (*types.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.DeletedAt != nil {
		return nil, &db.NotFoundError{Kind: "application", ID: id}
	}
	cp := *app
	return &cp, nil
}

func (f *fakeStore) UpdateApplication(_ context.Context, app *types.Application) (*types.Application, error) {
	existing, ok := f.apps[app.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, &db.NotFoundError{Kind: "application", ID: app.ID}
	}
	cp := *app
	f.apps[app.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetOrCreateMetric(_ context.Context, applicationID uuid.UUID) (*types.ApplicationMetric, error) {
	if m, ok := f.metrics[applicationID]; ok {
		cp := *m
		return &cp, nil
	}
	m := &types.ApplicationMetric{
		ID:            uuid.New(),
		ApplicationID: applicationID,
	}
	f.metrics[applicationID] = m
	cp := *m
	return &cp, nil
}

func (f *fakeStore) ApplyFunnelEvent(_ context.Context, applicationID uuid.UUID, ev types.FunnelEvent) (*types.ApplicationMetric, error) {
	m, ok := f.metrics[applicationID]
	if !ok {
		return nil, &db.NotFoundError{Kind: "metric", ID: applicationID}
	}
	m.ResponseReceived = m.ResponseReceived || ev.ResponseReceived || ev.InterviewGranted
	m.InterviewGranted = m.InterviewGranted || ev.InterviewGranted
	if m.TimeToResponseHours == nil && ev.ElapsedHours != nil {
		h := *ev.ElapsedHours
		m.TimeToResponseHours = &h
	}
	cp := *m
	return &cp, nil
}

type fakeRunner struct {
	store *fakeStore
}

func (r fakeRunner) InTx(_ context.Context, fn func(Store) error) error {
	return fn(r.store)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testMachine(store *fakeStore, clock *time.Time) *Machine {
	return newMachine(fakeRunner{store: store}, func() time.Time { return *clock })
}

func seedApplication(store *fakeStore, createdAt time.Time) *types.Application {
	app := &types.Application{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		JobTitle:  "Backend Engineer",
		Company:   "Acme",
		Status:    types.StatusPlanned,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	store.apps[app.ID] = app
	return app
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 10)
	m := testMachine(store, &clock)
	app := seedApplication(store, clock)

	_, err := m.Transition(context.Background(), app.ID, types.Status("ghosted"))
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if store.apps[app.ID].Status != types.StatusPlanned {
		t.Error("status changed despite invalid transition")
	}
	if len(store.metrics) != 0 {
		t.Error("metric created despite invalid transition")
	}
}

func TestTransitionNotFound(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 10)
	m := testMachine(store, &clock)

	_, err := m.Transition(context.Background(), uuid.New(), types.StatusApplied)
	if !db.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestTransitionSoftDeletedIsNotFound(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 10)
	m := testMachine(store, &clock)
	app := seedApplication(store, clock)
	deleted := clock
	store.apps[app.ID].DeletedAt = &deleted

	_, err := m.Transition(context.Background(), app.ID, types.StatusApplied)
	if !db.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for soft-deleted application, got %v", err)
	}
}

func TestFirstAppliedStampsAppliedAtOnce(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 12)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.January, 10))
	ctx := context.Background()

	got, err := m.Transition(ctx, app.ID, types.StatusApplied)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if got.AppliedAt == nil || !got.AppliedAt.Equal(date(2024, time.January, 12)) {
		t.Fatalf("AppliedAt = %v, expected 2024-01-12", got.AppliedAt)
	}

	metric := store.metrics[app.ID]
	if metric == nil {
		t.Fatal("metric not created on first applied transition")
	}
	if metric.ResponseReceived || metric.InterviewGranted {
		t.Error("fresh metric should have both booleans false")
	}

	// Re-applying later must not move the original timestamp
	clock = date(2024, time.February, 1)
	got, err = m.Transition(ctx, app.ID, types.StatusApplied)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if !got.AppliedAt.Equal(date(2024, time.January, 12)) {
		t.Errorf("AppliedAt moved to %v on repeated applied transition", got.AppliedAt)
	}
}

// Scenario: created 2024-01-10, applied 2024-01-12, interview 2024-01-20.
func TestInterviewCapturesResponseLatency(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 12)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.January, 10))
	ctx := context.Background()

	if _, err := m.Transition(ctx, app.ID, types.StatusApplied); err != nil {
		t.Fatalf("Transition to applied failed: %v", err)
	}

	clock = date(2024, time.January, 20)
	got, err := m.Transition(ctx, app.ID, types.StatusInterview)
	if err != nil {
		t.Fatalf("Transition to interview failed: %v", err)
	}
	if got.Status != types.StatusInterview {
		t.Errorf("Status = %q, expected interview", got.Status)
	}

	metric := store.metrics[app.ID]
	if !metric.ResponseReceived || !metric.InterviewGranted {
		t.Errorf("metric flags = (%v, %v), expected (true, true)", metric.ResponseReceived, metric.InterviewGranted)
	}
	if metric.TimeToResponseHours == nil || *metric.TimeToResponseHours != 192 {
		t.Errorf("TimeToResponseHours = %v, expected 192", metric.TimeToResponseHours)
	}
}

// Scenario: a later rejection must not recompute latency or regress flags.
func TestRejectionPreservesObservedFacts(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.January, 12)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.January, 10))
	ctx := context.Background()

	if _, err := m.Transition(ctx, app.ID, types.StatusApplied); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	clock = date(2024, time.January, 20)
	if _, err := m.Transition(ctx, app.ID, types.StatusInterview); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	clock = date(2024, time.February, 1)
	got, err := m.Transition(ctx, app.ID, types.StatusRejected)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if got.Status != types.StatusRejected {
		t.Errorf("Status = %q, expected rejected", got.Status)
	}

	metric := store.metrics[app.ID]
	if *metric.TimeToResponseHours != 192 {
		t.Errorf("TimeToResponseHours recomputed: got %d, expected 192", *metric.TimeToResponseHours)
	}
	if !metric.ResponseReceived {
		t.Error("ResponseReceived regressed to false")
	}
	if !metric.InterviewGranted {
		t.Error("InterviewGranted regressed to false")
	}
}

func TestLatencyIsFirstWriteWinsAcrossOrders(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.March, 1)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.February, 20))
	ctx := context.Background()

	if _, err := m.Transition(ctx, app.ID, types.StatusApplied); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	// Rejection observed first: latency captured here
	clock = date(2024, time.March, 3)
	if _, err := m.Transition(ctx, app.ID, types.StatusRejected); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	metric := store.metrics[app.ID]
	if *metric.TimeToResponseHours != 48 {
		t.Fatalf("TimeToResponseHours = %d, expected 48", *metric.TimeToResponseHours)
	}
	if metric.InterviewGranted {
		t.Error("rejection must not set InterviewGranted")
	}

	// Correction to interview later: grants interview, keeps first latency
	clock = date(2024, time.March, 10)
	if _, err := m.Transition(ctx, app.ID, types.StatusInterview); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	metric = store.metrics[app.ID]
	if *metric.TimeToResponseHours != 48 {
		t.Errorf("TimeToResponseHours overwritten: got %d, expected 48", *metric.TimeToResponseHours)
	}
	if !metric.InterviewGranted {
		t.Error("InterviewGranted not set by interview transition")
	}
}

func TestDirectRejectionFromPlanned(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.April, 1)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.March, 20))
	ctx := context.Background()

	got, err := m.Transition(ctx, app.ID, types.StatusRejected)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	// Rejected is past "applied", so applied_at gets stamped to keep the
	// applied_at-iff-reached-applied invariant.
	if got.AppliedAt == nil {
		t.Fatal("AppliedAt not set on direct rejection")
	}

	metric := store.metrics[app.ID]
	if !metric.ResponseReceived {
		t.Error("ResponseReceived not set by rejection")
	}
	if metric.InterviewGranted {
		t.Error("InterviewGranted set by rejection")
	}
}

func TestPlannedCorrectionHasNoMetricEffects(t *testing.T) {
	store := newFakeStore()
	clock := date(2024, time.May, 1)
	m := testMachine(store, &clock)
	app := seedApplication(store, date(2024, time.April, 20))
	ctx := context.Background()

	if _, err := m.Transition(ctx, app.ID, types.StatusApplied); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	before := *store.metrics[app.ID]

	clock = date(2024, time.May, 5)
	got, err := m.Transition(ctx, app.ID, types.StatusPlanned)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if got.Status != types.StatusPlanned {
		t.Errorf("Status = %q, expected planned", got.Status)
	}
	if got.AppliedAt == nil {
		t.Error("AppliedAt cleared by planned correction")
	}

	after := *store.metrics[app.ID]
	if before != after {
		t.Errorf("metric changed by planned correction: %+v -> %+v", before, after)
	}
}
