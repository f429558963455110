package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrations_CreateEveryTable(t *testing.T) {
	sql, err := migrations.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"clients", "employees", "requirements", "attachments", "submissions", "interviews", "timesheets"} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestNotFound_Wraps(t *testing.T) {
	id := uuid.New()
	err := notFound("client", id)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), id.String())
}

func TestWriteError(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := writeError("create employee", &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.in) already exists."})
		assert.True(t, errors.Is(err, ErrConflict))
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := writeError("delete client", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503"}))
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("other errors", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := writeError("create client", cause)
		assert.False(t, errors.Is(err, ErrConflict))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "failed to create client: connection reset", err.Error())
	})
}
