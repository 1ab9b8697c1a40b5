package cache

import (
	"context"
	"time"
)

// Entry is a snapshot of one cache entry as seen by a Store. A key can hold
// an entry with no value yet: that means a refresh has been claimed for a key
// that was never populated.
type Entry[T any] struct {
	Value      T
	HasValue   bool
	ExpiresAt  time.Time
	Refreshing bool
}

// Store persists cache entries. Implementations must make ClaimRefresh
// atomic per key: under concurrent callers exactly one may win the claim.
// Entries for different keys must not contend on a single lock.
type Store[T any] interface {
	// Get returns the entry for key, and whether one exists.
	Get(ctx context.Context, key string) (Entry[T], bool, error)
	// Set stores a new value with the given expiry and clears the
	// refreshing flag.
	Set(ctx context.Context, key string, value T, expiresAt time.Time) error
	// ClaimRefresh atomically sets the refreshing flag for key, creating an
	// empty entry if none exists. Returns false if the flag was already set.
	ClaimRefresh(ctx context.Context, key string) (bool, error)
	// ClearRefresh clears the refreshing flag without touching the value.
	ClearRefresh(ctx context.Context, key string) error
}
