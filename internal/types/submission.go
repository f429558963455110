package types

import (
	"time"

	"github.com/google/uuid"
)

// Interview progress of a submission
const (
	InterviewPending   = "pending"
	InterviewScheduled = "scheduled"
	InterviewSelected  = "selected"
	InterviewRejected  = "rejected"
	InterviewOnHold    = "on-hold"
)

// Submission is a candidate put forward against a requirement.
type Submission struct {
	ID                 uuid.UUID  `json:"id" csv:"id"`
	RequirementID      uuid.UUID  `json:"requirement_id" csv:"requirement_id" validate:"required"`
	CandidateName      string     `json:"candidate_name" csv:"candidate_name" validate:"required,min=2,max=120"`
	Email              string     `json:"email" csv:"email" validate:"required,email_tld"`
	ContactNumber      string     `json:"contact_number" csv:"contact_number" validate:"required,phone10"`
	TotalExperience    float64    `json:"total_experience" csv:"total_experience" validate:"gte=0,lte=50"`
	RelevantExperience float64    `json:"relevant_experience" csv:"relevant_experience" validate:"gte=0,ltefield=TotalExperience"`
	CurrentCTC         float64    `json:"current_ctc" csv:"current_ctc" validate:"gte=0"`
	ExpectedCTC        float64    `json:"expected_ctc" csv:"expected_ctc" validate:"gte=0"`
	NoticePeriodDays   int        `json:"notice_period_days" csv:"notice_period_days" validate:"gte=0,lte=180"`
	Skills             StringList `json:"skills" csv:"skills" validate:"max=50,dive,required,max=60"`
	InterviewStatus    string     `json:"interview_status" csv:"interview_status" validate:"required,oneof=pending scheduled selected rejected on-hold"`
	ResumeID           *uuid.UUID `json:"resume_id,omitempty" csv:"resume_id"`
	CreatedAt          time.Time  `json:"created_at" csv:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" csv:"updated_at"`
}

func (s *Submission) GetID() uuid.UUID   { return s.ID }
func (s *Submission) SetID(id uuid.UUID) { s.ID = id }
