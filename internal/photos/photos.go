// Package photos stores listing photos by content hash, so the same photo
// uploaded twice is kept once.
package photos

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/erazemk/lostmate/internal/db"
)

// URIPrefix is prepended to a hash to form the URI stored in Item.Image.
const URIPrefix = "/api/photos/"

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Hash returns the hex encoded BLAKE2b-256 digest of data.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidHash reports whether s looks like a value returned by Hash.
func ValidHash(s string) bool {
	return hashPattern.MatchString(s)
}

// URI returns the path under which a photo is served.
func URI(hash string) string {
	return URIPrefix + hash
}

// Store keeps photos in the photos table.
type Store struct {
	DB      *sql.DB
	Dialect db.Dialect
}

// New returns a photo store over an already migrated database.
func New(database *sql.DB, dialect db.Dialect) *Store {
	return &Store{DB: database, Dialect: dialect}
}

// Put stores data and returns its hash. Storing an existing photo is a no-op.
func (s *Store) Put(ctx context.Context, data []byte, mime string) (string, error) {
	hash := Hash(data)
	query := fmt.Sprintf(
		`INSERT INTO photos (hash, mime, data) VALUES (%s, %s, %s) ON CONFLICT (hash) DO NOTHING`,
		s.Dialect.Placeholder(1), s.Dialect.Placeholder(2), s.Dialect.Placeholder(3),
	)
	if _, err := s.DB.ExecContext(ctx, query, hash, mime, data); err != nil {
		return "", errors.Wrap(err, "storing photo")
	}
	return hash, nil
}

// Get returns a photo and its MIME type. data is nil when hash is unknown.
func (s *Store) Get(ctx context.Context, hash string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT data, mime FROM photos WHERE hash = %s`, s.Dialect.Placeholder(1)),
		hash,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "getting photo")
	}
	return data, mime, nil
}
