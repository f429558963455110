package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/staffdesk/internal/types"
)

const attachmentColumns = `id, owner_type, owner_id, file_name, content_type, size, storage_key, created_at`

func scanAttachment(row pgx.Row) (*types.Attachment, error) {
	var a types.Attachment
	err := row.Scan(&a.ID, &a.OwnerType, &a.OwnerID, &a.FileName, &a.ContentType, &a.Size,
		&a.StorageKey, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAttachment records an uploaded file. a.ID is used when set so the storage key
// can be derived from it before the insert.
func (db *DB) CreateAttachment(ctx context.Context, a *types.Attachment) (uuid.UUID, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO attachments (id, owner_type, owner_id, file_name, content_type, size, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		a.ID, a.OwnerType, a.OwnerID, a.FileName, a.ContentType, a.Size, a.StorageKey,
	).Scan(&a.CreatedAt)
	if err != nil {
		return uuid.Nil, writeError("create attachment", err)
	}
	return a.ID, nil
}

// GetAttachment retrieves attachment metadata by ID. Returns nil, nil if it does not exist.
func (db *DB) GetAttachment(ctx context.Context, id uuid.UUID) (*types.Attachment, error) {
	a, err := scanAttachment(db.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return a, nil
}

// ListAttachments returns the attachments of one owner, oldest first
func (db *DB) ListAttachments(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]types.Attachment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM attachments
		 WHERE owner_type = $1 AND owner_id = $2
		 ORDER BY created_at ASC`,
		ownerType, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var out []types.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
