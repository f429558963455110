package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const clientColumns = `id, name, spocs, payment_terms_days, address, status, created_at, updated_at`

func scanClient(row pgx.Row) (*types.Client, error) {
	var c types.Client
	err := row.Scan(&c.ID, &c.Name, &c.SPOCs, &c.PaymentTermsDays, &c.Address, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients returns every client ordered by name
func (db *DB) ListClients(ctx context.Context) ([]types.Client, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var out []types.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetClient retrieves a client by ID. Returns nil, nil if it does not exist.
func (db *DB) GetClient(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	c, err := scanClient(db.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// CreateClient inserts c and fills in its ID and timestamps
func (db *DB) CreateClient(ctx context.Context, c *types.Client) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO clients (name, spocs, payment_terms_days, address, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.SPOCs, c.PaymentTermsDays, c.Address, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return uuid.Nil, writeError("create client", err)
	}
	return c.ID, nil
}

// UpdateClient replaces every editable field of c
func (db *DB) UpdateClient(ctx context.Context, c *types.Client) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE clients SET name = $2, spocs = $3, payment_terms_days = $4, address = $5,
			status = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.SPOCs, c.PaymentTermsDays, c.Address, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("client", c.ID)
		}
		return writeError("update client", err)
	}
	return nil
}

// DeleteClient deletes a client. Clients with requirements are kept and ErrConflict is returned.
func (db *DB) DeleteClient(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return writeError("delete client", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("client", id)
	}
	return nil
}
