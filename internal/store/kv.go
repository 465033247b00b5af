package store

import "context"

// KV is the persistent key-value boundary. Each key is read and written
// independently; there is no cross-key transaction.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
