package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", SQLite.Placeholder(1))
	assert.Equal(t, "?", SQLite.Placeholder(3))
	assert.Equal(t, "$1", Postgres.Placeholder(1))
	assert.Equal(t, "$3", Postgres.Placeholder(3))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lostmate.sqlite3")

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, EnsureSchema(database, SQLite))
	require.NoError(t, EnsureSchema(database, SQLite))

	var n int
	err = database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('kv', 'photos')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
