package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const submissionColumns = `id, requirement_id, candidate_name, email, contact_number, total_experience,
	relevant_experience, current_ctc, expected_ctc, notice_period_days, skills, interview_status,
	resume_id, created_at, updated_at`

func scanSubmission(row pgx.Row) (*types.Submission, error) {
	var s types.Submission
	err := row.Scan(&s.ID, &s.RequirementID, &s.CandidateName, &s.Email, &s.ContactNumber,
		&s.TotalExperience, &s.RelevantExperience, &s.CurrentCTC, &s.ExpectedCTC,
		&s.NoticePeriodDays, &s.Skills, &s.InterviewStatus, &s.ResumeID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSubmissions returns every submission, newest first
func (db *DB) ListSubmissions(ctx context.Context) ([]types.Submission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []types.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetSubmission retrieves a submission by ID. Returns nil, nil if it does not exist.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
	s, err := scanSubmission(db.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// CreateSubmission inserts s and fills in its ID and timestamps
func (db *DB) CreateSubmission(ctx context.Context, s *types.Submission) (uuid.UUID, error) {
	if s.InterviewStatus == "" {
		s.InterviewStatus = types.InterviewPending
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO submissions (requirement_id, candidate_name, email, contact_number,
			total_experience, relevant_experience, current_ctc, expected_ctc, notice_period_days,
			skills, interview_status, resume_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		s.RequirementID, s.CandidateName, s.Email, s.ContactNumber, s.TotalExperience,
		s.RelevantExperience, s.CurrentCTC, s.ExpectedCTC, s.NoticePeriodDays, s.Skills,
		s.InterviewStatus, s.ResumeID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create submission", err)
	}
	return s.ID, nil
}

// UpdateSubmission replaces every editable field of s
func (db *DB) UpdateSubmission(ctx context.Context, s *types.Submission) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE submissions SET requirement_id = $2, candidate_name = $3, email = $4,
			contact_number = $5, total_experience = $6, relevant_experience = $7, current_ctc = $8,
			expected_ctc = $9, notice_period_days = $10, skills = $11, interview_status = $12,
			resume_id = $13, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		s.ID, s.RequirementID, s.CandidateName, s.Email, s.ContactNumber, s.TotalExperience,
		s.RelevantExperience, s.CurrentCTC, s.ExpectedCTC, s.NoticePeriodDays, s.Skills,
		s.InterviewStatus, s.ResumeID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("submission", s.ID)
		}
		return writeError("update submission", err)
	}
	return nil
}

// SetSubmissionResume links an uploaded attachment as the submission's resume
func (db *DB) SetSubmissionResume(ctx context.Context, id, attachmentID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE submissions SET resume_id = $2, updated_at = NOW() WHERE id = $1`,
		id, attachmentID,
	)
	if err != nil {
		return writeError("set submission resume", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("submission", id)
	}
	return nil
}

// DeleteSubmission deletes a submission and its interviews (via cascade)
func (db *DB) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return writeError("delete submission", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("submission", id)
	}
	return nil
}
