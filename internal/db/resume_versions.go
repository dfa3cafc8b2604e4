package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/application-tracker/internal/types"
)

// CreateResumeVersion records a new resume version for an owner.
func (s *Store) CreateResumeVersion(ctx context.Context, ownerID uuid.UUID, req *types.CreateResumeVersionRequest) (*types.ResumeVersion, error) {
	var v types.ResumeVersion
	err := s.q.QueryRow(ctx,
		`INSERT INTO resume_versions (owner_id, resume_id, title, tags)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, resume_id, title, tags, created_at`,
		ownerID, req.ResumeID, req.Title, req.Tags,
	).Scan(&v.ID, &v.ResumeID, &v.Title, &v.Tags, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume version: %w", err)
	}
	return &v, nil
}

// GetResumeVersion retrieves a resume version by ID.
func (s *Store) GetResumeVersion(ctx context.Context, id uuid.UUID) (*types.ResumeVersion, error) {
	var v types.ResumeVersion
	err := s.q.QueryRow(ctx,
		`SELECT id, resume_id, title, tags, created_at
		 FROM resume_versions WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.ResumeID, &v.Title, &v.Tags, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "resume version", ID: id}
		}
		return nil, fmt.Errorf("failed to get resume version: %w", err)
	}
	return &v, nil
}

// GetResumeVersionForOwner retrieves a resume version owned by ownerID.
// A version belonging to somebody else reads as not found.
func (s *Store) GetResumeVersionForOwner(ctx context.Context, id, ownerID uuid.UUID) (*types.ResumeVersion, error) {
	var v types.ResumeVersion
	err := s.q.QueryRow(ctx,
		`SELECT id, resume_id, title, tags, created_at
		 FROM resume_versions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&v.ID, &v.ResumeID, &v.Title, &v.Tags, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "resume version", ID: id}
		}
		return nil, fmt.Errorf("failed to get resume version: %w", err)
	}
	return &v, nil
}

// ListResumeVersions retrieves all resume versions for an owner, oldest first.
func (s *Store) ListResumeVersions(ctx context.Context, ownerID uuid.UUID) ([]types.ResumeVersion, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, resume_id, title, tags, created_at
		 FROM resume_versions WHERE owner_id = $1
		 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume versions: %w", err)
	}
	defer rows.Close()

	var versions []types.ResumeVersion
	for rows.Next() {
		var v types.ResumeVersion
		if err := rows.Scan(&v.ID, &v.ResumeID, &v.Title, &v.Tags, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}
