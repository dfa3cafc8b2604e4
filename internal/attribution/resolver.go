// Package attribution determines which resume version was likely used for an
// application and records explicit, user-confirmed links.
package attribution

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/types"
)

// Suggest picks the resume version most likely used for the application: the
// version whose creation date is closest before the application's reference
// date (applied_at when set, created_at otherwise). When no version predates
// the application, the pre-dating assumption cannot hold, so it falls back to
// the single oldest version rather than guessing a future one. Returns nil
// when no versions exist.
//
// Suggest is pure and deterministic: the same application and version set
// always yield the same version, regardless of input order. The result is
// advisory only; nothing is persisted until an explicit Link call.
func Suggest(app *types.Application, versions []types.ResumeVersion) *types.ResumeVersion {
	if len(versions) == 0 {
		return nil
	}

	refDate := app.CreatedAt
	if app.AppliedAt != nil {
		refDate = *app.AppliedAt
	}

	sorted := make([]types.ResumeVersion, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	// Latest version that existed at application time, i.e. closest prior
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].CreatedAt.After(refDate) {
			v := sorted[i]
			return &v
		}
	}

	// Every version postdates the application: oldest known version
	v := sorted[0]
	return &v
}

// Resolver loads the inputs for a suggestion and persists explicit links.
type Resolver struct {
	database *db.DB
}

// NewResolver creates a Resolver backed by the database.
func NewResolver(database *db.DB) *Resolver {
	return &Resolver{database: database}
}

// SuggestFor loads the application and the owner's resume versions, then
// returns the suggested version (nil when the owner has none). The two reads
// run concurrently; no lock is needed for a read-then-advise operation.
func (r *Resolver) SuggestFor(ctx context.Context, applicationID, ownerID uuid.UUID) (*types.ResumeVersion, error) {
	var (
		app      *types.Application
		versions []types.ResumeVersion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		app, err = r.database.GetApplication(gctx, applicationID)
		return err
	})
	g.Go(func() error {
		var err error
		versions, err = r.database.ListResumeVersions(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Suggest(app, versions), nil
}

// Link records the user-confirmed resume version for an application, creating
// the metric if needed. Idempotent: relinking replaces the stored id.
func (r *Resolver) Link(ctx context.Context, applicationID, resumeVersionID uuid.UUID) (*types.ApplicationMetric, error) {
	// Surface NotFound for unknown or soft-deleted applications before
	// touching the metric.
	if _, err := r.database.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return r.database.LinkResumeVersion(ctx, applicationID, resumeVersionID)
}
