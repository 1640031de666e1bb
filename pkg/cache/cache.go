// Package cache stores packing results between runs.
//
// A [Cache] is a plain byte store with per-entry TTL. Three backends are
// provided:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a local directory, for the CLI
//   - [RedisCache]: a shared store for several machines packing the same jobs
//
// Keys come from a [Keyer] so that every caller derives the same key for the
// same job, options and engine.
package cache

import (
	"context"
	"time"
)

// DefaultResultTTL is how long a packed result stays valid.
const DefaultResultTTL = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
