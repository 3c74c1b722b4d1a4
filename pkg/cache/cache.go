// Package cache stores computed plans between runs.
//
// Planning an atlas re-reads the gazetteer for every page and re-runs the
// index layout, so identical jobs are served from a [Cache] keyed by a
// [Keyer]. The CLI uses [FileCache] under the user cache directory,
// [RedisCache] when several planners share a cache URL, and [NullCache]
// when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Entry lifetimes.
const (
	// TTLPlan bounds how long a plan is reused. Gazetteer files are part of
	// the key, so expiry only limits disk growth.
	TTLPlan = 24 * time.Hour

	// TTLPapers is the lifetime of compatible paper lists.
	TTLPapers = 7 * 24 * time.Hour
)
