package persistence

import "context"

// KV is the storage contract the desk persists through: whole JSON
// documents stored under string keys. Implementations must treat a missing
// key as absent, not as an error.
type KV interface {
	// Get returns the document under key. found is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the document under key.
	Set(ctx context.Context, key, value string) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close()
}
