package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const interviewColumns = `id, submission_id, requirement_id, scheduled_at, duration_minutes,
	meeting_link, level, status, feedback, created_at, updated_at`

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var i types.Interview
	err := row.Scan(&i.ID, &i.SubmissionID, &i.RequirementID, &i.ScheduledAt, &i.DurationMinutes,
		&i.MeetingLink, &i.Level, &i.Status, &i.Feedback, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListInterviews returns every interview ordered by schedule
func (db *DB) ListInterviews(ctx context.Context) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews ORDER BY scheduled_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var out []types.Interview
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

// GetInterview retrieves an interview by ID. Returns nil, nil if it does not exist.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	i, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return i, nil
}

// CreateInterview inserts i and fills in its ID and timestamps
func (db *DB) CreateInterview(ctx context.Context, i *types.Interview) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interviews (submission_id, requirement_id, scheduled_at, duration_minutes,
			meeting_link, level, status, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		i.SubmissionID, i.RequirementID, i.ScheduledAt, i.DurationMinutes, i.MeetingLink,
		i.Level, i.Status, i.Feedback,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create interview", err)
	}
	return i.ID, nil
}

// UpdateInterview replaces every editable field of i
func (db *DB) UpdateInterview(ctx context.Context, i *types.Interview) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE interviews SET submission_id = $2, requirement_id = $3, scheduled_at = $4,
			duration_minutes = $5, meeting_link = $6, level = $7, status = $8, feedback = $9,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		i.ID, i.SubmissionID, i.RequirementID, i.ScheduledAt, i.DurationMinutes, i.MeetingLink,
		i.Level, i.Status, i.Feedback,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("interview", i.ID)
		}
		return writeError("update interview", err)
	}
	return nil
}

// DeleteInterview deletes an interview
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return writeError("delete interview", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("interview", id)
	}
	return nil
}
