package types

import (
	"time"

	"github.com/google/uuid"
)

// Interview is a scheduled round for a submission.
type Interview struct {
	ID              uuid.UUID `json:"id" csv:"id"`
	SubmissionID    uuid.UUID `json:"submission_id" csv:"submission_id" validate:"required"`
	RequirementID   uuid.UUID `json:"requirement_id" csv:"requirement_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" csv:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" csv:"duration_minutes" validate:"gte=15,lte=480"`
	MeetingLink     string    `json:"meeting_link" csv:"meeting_link" validate:"required,url"`
	Level           string    `json:"level" csv:"level" validate:"required,oneof=L1 L2 L3 client HR"`
	Status          string    `json:"status" csv:"status" validate:"required,oneof=scheduled completed cancelled no-show"`
	Feedback        string    `json:"feedback" csv:"feedback" validate:"max=5000"`
	CreatedAt       time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" csv:"updated_at"`
}

func (i *Interview) GetID() uuid.UUID   { return i.ID }
func (i *Interview) SetID(id uuid.UUID) { i.ID = id }

// EndsAt is the scheduled end of the round.
func (i *Interview) EndsAt() time.Time {
	return i.ScheduledAt.Add(time.Duration(i.DurationMinutes) * time.Minute)
}
