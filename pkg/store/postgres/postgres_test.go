package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/000001_create_payments.up.sql")
	assert.Contains(t, files, "migrations/000001_create_payments.down.sql")

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_payments.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS payments")
}

func TestNewDB_RequiresDSN(t *testing.T) {
	_, err := NewDB(context.Background(), Settings{})
	assert.Error(t, err)
}
