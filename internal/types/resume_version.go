package types

import (
	"time"

	"github.com/google/uuid"
)

// ResumeVersion is one iteration of a resume. Versions belong to a resume,
// which belongs to the candidate profile. Many applications may attribute
// themselves to the same version, which is what enables per-version
// performance comparison.
type ResumeVersion struct {
	ID        uuid.UUID `json:"id"`
	ResumeID  uuid.UUID `json:"resume_id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
