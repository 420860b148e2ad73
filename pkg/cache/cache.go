// Package cache provides byte caches keyed by strings.
//
// Three backends implement [Cache]:
//
//   - [NullCache] stores nothing and is the default
//   - [FileCache] stores entries as JSON files under a directory
//   - [RedisCache] stores entries in Redis with native expiry
//
// Keys are produced by a [Keyer] so that every backend sees the same
// key layout. Callers treat a backend error on Get as a miss; the cache
// is never the source of truth.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
