package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/application-tracker/internal/types"
)

const metricColumns = `id, application_id, response_received, interview_granted,
	        time_to_response_hours, resume_version_id, created_at, updated_at`

func scanMetric(row pgx.Row) (*types.ApplicationMetric, error) {
	var m types.ApplicationMetric
	err := row.Scan(&m.ID, &m.ApplicationID, &m.ResponseReceived, &m.InterviewGranted,
		&m.TimeToResponseHours, &m.ResumeVersionID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMetric retrieves the metric for an application, or nil if none exists yet.
func (s *Store) GetMetric(ctx context.Context, applicationID uuid.UUID) (*types.ApplicationMetric, error) {
	m, err := scanMetric(s.q.QueryRow(ctx,
		`SELECT `+metricColumns+`
		 FROM application_metrics WHERE application_id = $1`,
		applicationID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}
	return m, nil
}

// GetOrCreateMetric returns the metric for an application, creating an empty
// one if absent. The upsert is idempotent: at most one metric row can ever
// exist per application id.
func (s *Store) GetOrCreateMetric(ctx context.Context, applicationID uuid.UUID) (*types.ApplicationMetric, error) {
	_, err := s.q.Exec(ctx,
		`INSERT INTO application_metrics (application_id)
		 VALUES ($1)
		 ON CONFLICT (application_id) DO NOTHING`,
		applicationID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return nil, &NotFoundError{Kind: "application", ID: applicationID}
		}
		return nil, fmt.Errorf("failed to ensure metric: %w", err)
	}

	metric, err := s.GetMetric(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, &NotFoundError{Kind: "metric", ID: applicationID}
	}
	return metric, nil
}

// ApplyFunnelEvent merges observed funnel facts into a metric. The merge is
// monotonic and applied in a single UPDATE: booleans are OR-ed and the
// time-to-response is COALESCE-d, so already-observed facts survive repeated,
// out-of-order, or concurrent events regardless of writer interleaving.
func (s *Store) ApplyFunnelEvent(ctx context.Context, applicationID uuid.UUID, ev types.FunnelEvent) (*types.ApplicationMetric, error) {
	m, err := scanMetric(s.q.QueryRow(ctx,
		`UPDATE application_metrics
		 SET response_received = response_received OR $2 OR $3,
		     interview_granted = interview_granted OR $3,
		     time_to_response_hours = COALESCE(time_to_response_hours, $4),
		     updated_at = NOW()
		 WHERE application_id = $1
		 RETURNING `+metricColumns,
		applicationID, ev.ResponseReceived, ev.InterviewGranted, ev.ElapsedHours,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "metric", ID: applicationID}
		}
		return nil, fmt.Errorf("failed to apply funnel event: %w", err)
	}
	return m, nil
}

// LinkResumeVersion records which resume version was used for an application,
// creating the metric first if needed. Relinking simply replaces the stored
// id; no history is kept.
func (s *Store) LinkResumeVersion(ctx context.Context, applicationID, resumeVersionID uuid.UUID) (*types.ApplicationMetric, error) {
	if _, err := s.GetOrCreateMetric(ctx, applicationID); err != nil {
		return nil, err
	}

	m, err := scanMetric(s.q.QueryRow(ctx,
		`UPDATE application_metrics
		 SET resume_version_id = $2, updated_at = NOW()
		 WHERE application_id = $1
		 RETURNING `+metricColumns,
		applicationID, resumeVersionID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, &NotFoundError{Kind: "resume version", ID: resumeVersionID}
		}
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "metric", ID: applicationID}
		}
		return nil, fmt.Errorf("failed to link resume version: %w", err)
	}
	return m, nil
}
