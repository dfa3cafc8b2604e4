package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/application-tracker/internal/types"
)

const applicationColumns = `id, owner_id, job_title, company, status, applied_at,
	        job_posting_id, notes, created_at, updated_at, deleted_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	err := row.Scan(&a.ID, &a.OwnerID, &a.JobTitle, &a.Company, &a.Status,
		&a.AppliedAt, &a.JobPostingID, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts a new application. New applications always start
// in the "planned" status; the state machine owns every later status change.
func (s *Store) CreateApplication(ctx context.Context, ownerID uuid.UUID, req *types.CreateApplicationRequest) (*types.Application, error) {
	row := s.q.QueryRow(ctx,
		`INSERT INTO applications (owner_id, job_title, company, status, job_posting_id, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+applicationColumns,
		ownerID, req.JobTitle, req.Company, types.StatusPlanned, req.JobPostingID, req.Notes,
	)
	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application by ID. Soft-deleted applications
// are treated as not found.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "application", ID: id}
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// GetApplicationForUpdate retrieves an application and takes a row lock on it.
// Only meaningful inside InTx; the lock serializes concurrent transitions on
// the same application.
func (s *Store) GetApplicationForUpdate(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`,
		id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "application", ID: id}
		}
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}
	return app, nil
}

// ListApplications retrieves all applications for an owner, newest first.
// Soft-deleted applications are excluded unless includeDeleted is set.
func (s *Store) ListApplications(ctx context.Context, ownerID uuid.UUID, includeDeleted bool) ([]types.Application, error) {
	query := `SELECT ` + applicationColumns + `
		 FROM applications WHERE owner_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// UpdateApplication performs a full update of a mutable application row.
func (s *Store) UpdateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	row := s.q.QueryRow(ctx,
		`UPDATE applications
		 SET job_title = $2, company = $3, status = $4, applied_at = $5,
		     job_posting_id = $6, notes = $7, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING `+applicationColumns,
		app.ID, app.JobTitle, app.Company, app.Status, app.AppliedAt,
		app.JobPostingID, app.Notes,
	)
	updated, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "application", ID: app.ID}
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return updated, nil
}

// SoftDeleteApplication marks an application deleted. The row is kept, but
// every subsequent read excludes it.
func (s *Store) SoftDeleteApplication(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE applications SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "application", ID: id}
	}
	return nil
}

// ListApplicationsWithMetrics returns the owner's live applications joined
// with their metrics where one exists. This is the point-in-time snapshot the
// analytics aggregator consumes.
func (s *Store) ListApplicationsWithMetrics(ctx context.Context, ownerID uuid.UUID) ([]types.ApplicationWithMetric, error) {
	rows, err := s.q.Query(ctx,
		`SELECT a.id, a.owner_id, a.job_title, a.company, a.status, a.applied_at,
		        a.job_posting_id, a.notes, a.created_at, a.updated_at, a.deleted_at,
		        m.id, m.response_received, m.interview_granted,
		        m.time_to_response_hours, m.resume_version_id, m.created_at, m.updated_at
		 FROM applications a
		 LEFT JOIN application_metrics m ON m.application_id = a.id
		 WHERE a.owner_id = $1 AND a.deleted_at IS NULL
		 ORDER BY a.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications with metrics: %w", err)
	}
	defer rows.Close()

	var pairs []types.ApplicationWithMetric
	for rows.Next() {
		var a types.Application
		var metricID *uuid.UUID
		var responseReceived, interviewGranted *bool
		var hours *int
		var resumeVersionID *uuid.UUID
		var metricCreated, metricUpdated *time.Time

		err := rows.Scan(&a.ID, &a.OwnerID, &a.JobTitle, &a.Company, &a.Status,
			&a.AppliedAt, &a.JobPostingID, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
			&metricID, &responseReceived, &interviewGranted,
			&hours, &resumeVersionID, &metricCreated, &metricUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application with metric: %w", err)
		}

		pair := types.ApplicationWithMetric{Application: a}
		if metricID != nil {
			pair.Metric = &types.ApplicationMetric{
				ID:                  *metricID,
				ApplicationID:       a.ID,
				ResponseReceived:    *responseReceived,
				InterviewGranted:    *interviewGranted,
				TimeToResponseHours: hours,
				ResumeVersionID:     resumeVersionID,
				CreatedAt:           *metricCreated,
				UpdatedAt:           *metricUpdated,
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
