package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const requirementColumns = `id, title, client_id, recruiter_ids, description, location, positions,
	min_experience, max_experience, status, created_at, updated_at`

func scanRequirement(row pgx.Row) (*types.Requirement, error) {
	var r types.Requirement
	err := row.Scan(&r.ID, &r.Title, &r.ClientID, &r.RecruiterIDs, &r.Description, &r.Location,
		&r.Positions, &r.MinExperience, &r.MaxExperience, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRequirements returns every requirement, newest first
func (db *DB) ListRequirements(ctx context.Context) ([]types.Requirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+requirementColumns+` FROM requirements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	var out []types.Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRequirement retrieves a requirement by ID. Returns nil, nil if it does not exist.
func (db *DB) GetRequirement(ctx context.Context, id uuid.UUID) (*types.Requirement, error) {
	r, err := scanRequirement(db.pool.QueryRow(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return r, nil
}

// CreateRequirement inserts r and fills in its ID and timestamps
func (db *DB) CreateRequirement(ctx context.Context, r *types.Requirement) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO requirements (title, client_id, recruiter_ids, description, location, positions,
			min_experience, max_experience, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		r.Title, r.ClientID, r.RecruiterIDs, r.Description, r.Location, r.Positions,
		r.MinExperience, r.MaxExperience, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create requirement", err)
	}
	return r.ID, nil
}

// UpdateRequirement replaces every editable field of r
func (db *DB) UpdateRequirement(ctx context.Context, r *types.Requirement) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE requirements SET title = $2, client_id = $3, recruiter_ids = $4, description = $5,
			location = $6, positions = $7, min_experience = $8, max_experience = $9, status = $10,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		r.ID, r.Title, r.ClientID, r.RecruiterIDs, r.Description, r.Location, r.Positions,
		r.MinExperience, r.MaxExperience, r.Status,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("requirement", r.ID)
		}
		return writeError("update requirement", err)
	}
	return nil
}

// DeleteRequirement deletes a requirement and its submissions (via cascade)
func (db *DB) DeleteRequirement(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return writeError("delete requirement", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("requirement", id)
	}
	return nil
}
