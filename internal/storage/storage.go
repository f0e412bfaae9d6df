// Package storage provides the key/value persistence used by the item store.
// A key holds one opaque blob; writes replace the whole value.
package storage

import "context"

// Adapter is a durable key/value store.
type Adapter interface {
	// Read returns the blob stored under key. found is false when the key has
	// never been written.
	Read(ctx context.Context, key string) (blob []byte, found bool, err error)

	// Write stores blob under key, replacing any previous value.
	Write(ctx context.Context, key string, blob []byte) error
}
