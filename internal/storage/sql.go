package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/erazemk/lostmate/internal/db"
)

// SQL is an Adapter backed by the kv table of a SQLite or PostgreSQL database.
type SQL struct {
	DB      *sql.DB
	Dialect db.Dialect
}

// NewSQL returns an adapter over an already migrated database.
func NewSQL(database *sql.DB, dialect db.Dialect) *SQL {
	return &SQL{DB: database, Dialect: dialect}
}

// Read implements Adapter.
func (s *SQL) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM kv WHERE key = %s`, s.Dialect.Placeholder(1)),
		key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading key %q", key)
	}
	return []byte(value), true, nil
}

// Write implements Adapter.
func (s *SQL) Write(ctx context.Context, key string, blob []byte) error {
	query := fmt.Sprintf(
		`INSERT INTO kv (key, value) VALUES (%s, %s)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.Dialect.Placeholder(1), s.Dialect.Placeholder(2),
	)
	if _, err := s.DB.ExecContext(ctx, query, key, string(blob)); err != nil {
		return errors.Wrapf(err, "writing key %q", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM kv WHERE key = %s`, s.Dialect.Placeholder(1)),
		key,
	)
	if err != nil {
		return errors.Wrapf(err, "deleting key %q", key)
	}
	return nil
}
