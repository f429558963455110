package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const timesheetColumns = `id, employee_id, work_date, hours, status, notes, created_at, updated_at`

func scanTimesheet(row pgx.Row) (*types.Timesheet, error) {
	var t types.Timesheet
	err := row.Scan(&t.ID, &t.EmployeeID, &t.WorkDate, &t.Hours, &t.Status, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTimesheets returns every timesheet entry, latest day first
func (db *DB) ListTimesheets(ctx context.Context) ([]types.Timesheet, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+timesheetColumns+` FROM timesheets ORDER BY work_date DESC, employee_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var out []types.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetTimesheet retrieves a timesheet entry by ID. Returns nil, nil if it does not exist.
func (db *DB) GetTimesheet(ctx context.Context, id uuid.UUID) (*types.Timesheet, error) {
	t, err := scanTimesheet(db.pool.QueryRow(ctx,
		`SELECT `+timesheetColumns+` FROM timesheets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timesheet: %w", err)
	}
	return t, nil
}

// CreateTimesheet inserts t and fills in its ID and timestamps
func (db *DB) CreateTimesheet(ctx context.Context, t *types.Timesheet) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO timesheets (employee_id, work_date, hours, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		t.EmployeeID, t.WorkDate, t.Hours, t.Status, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create timesheet", err)
	}
	return t.ID, nil
}

// UpsertTimesheet inserts t or replaces the entry of the same employee and day
func (db *DB) UpsertTimesheet(ctx context.Context, t *types.Timesheet) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO timesheets (employee_id, work_date, hours, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (employee_id, work_date)
		 DO UPDATE SET hours = $3, status = $4, notes = $5, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		t.EmployeeID, t.WorkDate, t.Hours, t.Status, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("upsert timesheet", err)
	}
	return t.ID, nil
}

// UpdateTimesheet replaces every editable field of t
func (db *DB) UpdateTimesheet(ctx context.Context, t *types.Timesheet) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE timesheets SET employee_id = $2, work_date = $3, hours = $4, status = $5,
			notes = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		t.ID, t.EmployeeID, t.WorkDate, t.Hours, t.Status, t.Notes,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("timesheet", t.ID)
		}
		return writeError("update timesheet", err)
	}
	return nil
}

// DeleteTimesheet deletes a timesheet entry
func (db *DB) DeleteTimesheet(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM timesheets WHERE id = $1`, id)
	if err != nil {
		return writeError("delete timesheet", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("timesheet", id)
	}
	return nil
}
