package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// JobPosting is a cached job posting fetched from a job board. Applications
// optionally reference a posting; whether they do drives the "linked vs
// manual" method comparison in analytics.
type JobPosting struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	RoleTitle   *string   `json:"role_title,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Platform    *string   `json:"platform,omitempty"`
	CleanedText *string   `json:"cleaned_text,omitempty"`
	ContentHash *string   `json:"content_hash,omitempty"`
	HTTPStatus  *int      `json:"http_status,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobPostingCreateInput holds the fields for upserting a job posting.
type JobPostingCreateInput struct {
	URL         string
	RoleTitle   *string
	Company     *string
	Platform    *string
	CleanedText *string
	HTTPStatus  *int
}

// HashContent returns the SHA-256 hex digest of posting text, used to detect
// content changes across re-fetches.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
