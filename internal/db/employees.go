package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const employeeColumns = `id, name, email, phone, roles, status, password_hash, created_at, updated_at`

func scanEmployee(row pgx.Row) (*types.Employee, error) {
	var e types.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Roles, &e.Status, &e.PasswordHash,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns every employee ordered by name
func (db *DB) ListEmployees(ctx context.Context) ([]types.Employee, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []types.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetEmployee retrieves an employee by ID. Returns nil, nil if it does not exist.
func (db *DB) GetEmployee(ctx context.Context, id uuid.UUID) (*types.Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetEmployeeByEmail retrieves an employee by email, ignoring case.
// Returns nil, nil if no employee has that email.
func (db *DB) GetEmployeeByEmail(ctx context.Context, email string) (*types.Employee, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	e, err := scanEmployee(db.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return e, nil
}

// CreateEmployee inserts e (including its password hash) and fills in its ID and timestamps
func (db *DB) CreateEmployee(ctx context.Context, e *types.Employee) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO employees (name, email, phone, roles, status, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.Email, e.Phone, e.Roles, e.Status, e.PasswordHash,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create employee", err)
	}
	return e.ID, nil
}

// UpdateEmployee replaces the profile fields of e. The password hash is only
// changed when e.PasswordHash is set.
func (db *DB) UpdateEmployee(ctx context.Context, e *types.Employee) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE employees SET name = $2, email = $3, phone = $4, roles = $5, status = $6,
			password_hash = COALESCE(NULLIF($7, ''), password_hash), updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		e.ID, e.Name, e.Email, e.Phone, e.Roles, e.Status, e.PasswordHash,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("employee", e.ID)
		}
		return writeError("update employee", err)
	}
	return nil
}

// UpdateEmployeePassword stores a new password hash
func (db *DB) UpdateEmployeePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE employees SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("employee", id)
	}
	return nil
}

// DeleteEmployee deletes an employee and their timesheets (via cascade)
func (db *DB) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return writeError("delete employee", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("employee", id)
	}
	return nil
}
