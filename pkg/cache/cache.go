// Package cache provides persistent caching for computed permutations.
//
// Reordering a large graph can take minutes; the cache lets repeated CLI
// invocations with identical inputs and settings skip the computation
// entirely. Keys are derived from a content hash of the graph plus the
// reordering settings, so any change to either produces a fresh entry.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiration applied to cached permutations when the
// caller does not choose one. Entries never become stale semantically
// (same graph, same settings, same result), but a bound keeps the cache
// directory from growing without limit.
const DefaultTTL = 30 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
