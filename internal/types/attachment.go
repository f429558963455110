package types

import (
	"time"

	"github.com/google/uuid"
)

// Attachment owner types
const (
	OwnerSubmission  = "submission"
	OwnerRequirement = "requirement"
	OwnerClient      = "client"
	OwnerEmployee    = "employee"
)

// Attachment is an uploaded file (resume or supporting document).
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	OwnerType   string    `json:"owner_type"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
