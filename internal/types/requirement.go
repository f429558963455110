package types

import (
	"time"

	"github.com/google/uuid"
)

// Requirement statuses
const (
	RequirementOpen   = "open"
	RequirementOnHold = "on-hold"
	RequirementClosed = "closed"
	RequirementFilled = "filled"
)

// Requirement is a job opening routed to recruiters.
type Requirement struct {
	ID            uuid.UUID `json:"id" csv:"id"`
	Title         string    `json:"title" csv:"title" validate:"required,min=2,max=200"`
	ClientID      uuid.UUID `json:"client_id" csv:"client_id" validate:"required"`
	RecruiterIDs  IDList    `json:"recruiter_ids" csv:"recruiter_ids"`
	Description   string    `json:"description" csv:"description" validate:"max=20000"`
	Location      string    `json:"location" csv:"location" validate:"max=120"`
	Positions     int       `json:"positions" csv:"positions" validate:"gte=1,lte=500"`
	MinExperience float64   `json:"min_experience" csv:"min_experience" validate:"gte=0,lte=50"`
	MaxExperience float64   `json:"max_experience" csv:"max_experience" validate:"gte=0,lte=50,gtefield=MinExperience"`
	Status        string    `json:"status" csv:"status" validate:"required,oneof=open on-hold closed filled"`
	CreatedAt     time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" csv:"updated_at"`
}

func (r *Requirement) GetID() uuid.UUID   { return r.ID }
func (r *Requirement) SetID(id uuid.UUID) { r.ID = id }
