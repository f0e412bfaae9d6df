package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostmate/internal/db"
)

func exerciseAdapter(t *testing.T, a Adapter) {
	t.Helper()
	ctx := context.Background()

	_, found, err := a.Read(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, a.Write(ctx, "k", []byte(`[{"id":"1"}]`)))
	blob, found, err := a.Read(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(blob))

	// Writes replace the whole value.
	require.NoError(t, a.Write(ctx, "k", []byte(`[]`)))
	blob, _, err = a.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(blob))
}

func TestSQLiteAdapter(t *testing.T) {
	database := db.NewTestDB(t)
	a := NewSQL(database, db.SQLite)

	exerciseAdapter(t, a)

	require.NoError(t, a.Delete(context.Background(), "k"))
	require.NoError(t, a.Delete(context.Background(), "k"))
	_, found, err := a.Read(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteAdapterClosedDB(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(database, db.SQLite))
	database.Close()

	a := NewSQL(database, db.SQLite)
	_, _, err = a.Read(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, a.Write(context.Background(), "k", []byte("x")))
}

func TestPostgresAdapter(t *testing.T) {
	dsn := os.Getenv("LOSTMATE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LOSTMATE_TEST_POSTGRES_DSN not set")
	}

	database, err := db.OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, db.EnsureSchema(database, db.Postgres))

	a := NewSQL(database, db.Postgres)
	exerciseAdapter(t, a)
	require.NoError(t, a.Delete(context.Background(), "k"))
}

func TestMemoryAdapter(t *testing.T) {
	m := NewMemory()
	exerciseAdapter(t, m)
	assert.Equal(t, 2, m.Writes())

	boom := errors.New("disk full")
	m.SetWriteErr(boom)
	assert.ErrorIs(t, m.Write(context.Background(), "k", []byte("x")), boom)
	assert.Equal(t, 2, m.Writes())

	m.SetReadErr(boom)
	_, _, err := m.Read(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
}

func TestMemoryAdapterCopiesBlobs(t *testing.T) {
	m := NewMemory()
	blob := []byte("abc")
	require.NoError(t, m.Write(context.Background(), "k", blob))
	blob[0] = 'z'

	got, _, err := m.Read(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
