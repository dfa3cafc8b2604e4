package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobPostingColumns = `id, url, role_title, company, platform, cleaned_text,
	        content_hash, http_status, fetched_at, created_at, updated_at`

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	err := row.Scan(&p.ID, &p.URL, &p.RoleTitle, &p.Company, &p.Platform,
		&p.CleanedText, &p.ContentHash, &p.HTTPStatus, &p.FetchedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertJobPosting creates or refreshes a job posting keyed by URL.
func (s *Store) UpsertJobPosting(ctx context.Context, input *JobPostingCreateInput) (*JobPosting, error) {
	var contentHash *string
	if input.CleanedText != nil {
		h := HashContent(*input.CleanedText)
		contentHash = &h
	}

	p, err := scanJobPosting(s.q.QueryRow(ctx,
		`INSERT INTO job_postings (url, role_title, company, platform, cleaned_text, content_hash, http_status, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (url) DO UPDATE
		 SET role_title = EXCLUDED.role_title,
		     company = EXCLUDED.company,
		     platform = EXCLUDED.platform,
		     cleaned_text = EXCLUDED.cleaned_text,
		     content_hash = EXCLUDED.content_hash,
		     http_status = EXCLUDED.http_status,
		     fetched_at = NOW(),
		     updated_at = NOW()
		 RETURNING `+jobPostingColumns,
		input.URL, input.RoleTitle, input.Company, input.Platform,
		input.CleanedText, contentHash, input.HTTPStatus,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return p, nil
}

// GetJobPostingByID retrieves a job posting by its ID.
func (s *Store) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	p, err := scanJobPosting(s.q.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`,
		id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "job posting", ID: id}
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// GetJobPostingByURL retrieves a job posting by its URL, or nil if not cached.
func (s *Store) GetJobPostingByURL(ctx context.Context, url string) (*JobPosting, error) {
	p, err := scanJobPosting(s.q.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE url = $1`,
		url,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}
