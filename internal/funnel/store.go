// Package funnel implements the application status state machine and the
// funnel metrics recorder that it drives.
package funnel

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/types"
)

// Store is the record-store surface a transition needs. *db.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetApplicationForUpdate(ctx context.Context, id uuid.UUID) (*types.Application, error)
	UpdateApplication(ctx context.Context, app *types.Application) (*types.Application, error)
	GetOrCreateMetric(ctx context.Context, applicationID uuid.UUID) (*types.ApplicationMetric, error)
	ApplyFunnelEvent(ctx context.Context, applicationID uuid.UUID, ev types.FunnelEvent) (*types.ApplicationMetric, error)
}

// TxRunner executes a function against a transaction-bound Store. The status
// write and its metric side effects always share one transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// dbRunner adapts *db.DB to the TxRunner interface.
type dbRunner struct {
	database *db.DB
}

func (r dbRunner) InTx(ctx context.Context, fn func(Store) error) error {
	return r.database.InTx(ctx, func(s *db.Store) error {
		return fn(s)
	})
}
