package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/intralinks/internal/adapters/scheduler"
	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/reporting"
)

const DEFAULT_TTL = time.Hour

// Producer computes a fresh value for a key. It runs exclusively on a
// background job and may be arbitrarily expensive.
type Producer[T any] func(ctx context.Context) (T, error)

type SWROptions[T any] struct {
	// TTL applied to newly produced values. Defaults to DEFAULT_TTL.
	TTL time.Duration
	// Optional per-key TTL override. Returning 0 falls back to TTL.
	TTLFor func(key string) time.Duration
	// IsEmpty reports whether a produced value counts as empty. Empty
	// results never overwrite a previously cached value. Defaults to never
	// empty.
	IsEmpty func(value T) bool
	// NowFunc defaults to time.Now.
	NowFunc func() time.Time
}

// SWR is a stale-while-revalidate cache. Get never computes a value
// synchronously: it returns cached data (possibly stale) or the zero value
// immediately, and at most one background refresh per key is ever in flight.
type SWR[T any] struct {
	store     Store[T]
	scheduler scheduler.Scheduler

	ttl     time.Duration
	ttlFor  func(key string) time.Duration
	isEmpty func(value T) bool
	nowFunc func() time.Time
}

func NewSWR[T any](store Store[T], sched scheduler.Scheduler, options SWROptions[T]) *SWR[T] {
	ttl := options.TTL
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	nowFunc := options.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &SWR[T]{
		store:     store,
		scheduler: sched,
		ttl:       ttl,
		ttlFor:    options.TTLFor,
		isEmpty:   options.IsEmpty,
		nowFunc:   nowFunc,
	}
}

// Get returns the cached value for key.
//
// Missing entry: claims the key, enqueues a refresh, and returns the zero
// value for this call. Fresh entry: returns it. Expired entry: returns the
// stale value and enqueues a refresh, unless one is already in flight.
// Store failures degrade to the zero value; the caller's render path never
// fails because of this cache.
func (c *SWR[T]) Get(ctx context.Context, key string, produce Producer[T]) T {
	var zero T

	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("cache: failed to read entry: %w", err))
		return zero
	}

	if found && entry.Refreshing {
		// A job is already in flight; serve whatever we have
		recordLookup(ctx, "refreshing")
		return entry.Value
	}

	if found && c.nowFunc().Before(entry.ExpiresAt) {
		recordLookup(ctx, "hit")
		return entry.Value
	}

	if found {
		recordLookup(ctx, "stale")
	} else {
		recordLookup(ctx, "miss")
	}

	c.maybeEnqueueRefresh(ctx, key, produce)

	// For a miss entry.Value is the zero value already
	return entry.Value
}

// maybeEnqueueRefresh claims the key and schedules exactly one refresh job.
// Losing the claim means another caller got there first.
func (c *SWR[T]) maybeEnqueueRefresh(ctx context.Context, key string, produce Producer[T]) {
	claimed, err := c.store.ClaimRefresh(ctx, key)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("cache: failed to claim refresh: %w", err))
		return
	}
	if !claimed {
		return
	}

	metrics.refreshCount.Add(ctx, 1)
	logging.FromContext(ctx).InfoContext(ctx, "Enqueueing cache refresh", "key", key)

	c.scheduler.Enqueue(func(jobCtx context.Context) {
		c.refresh(jobCtx, key, produce)
	})
}

func (c *SWR[T]) refresh(ctx context.Context, key string, produce Producer[T]) {
	clearClaim := func() {
		if err := c.store.ClearRefresh(ctx, key); err != nil {
			reporting.Report(ctx, fmt.Errorf("cache: failed to clear refresh claim: %w", err))
		}
	}

	value, err := func() (value T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("producer panicked: %v", r)
			}
		}()
		return produce(ctx)
	}()
	if err != nil {
		metrics.refreshFailure.Add(ctx, 1)
		reporting.Report(ctx, fmt.Errorf("cache: refresh failed for key: %w", err), map[string]string{
			"key": key,
		})
		clearClaim()
		return
	}

	if c.isEmpty != nil && c.isEmpty(value) {
		// Don't let a transient empty result erase a good cached value
		metrics.refreshFailure.Add(ctx, 1)
		logging.FromContext(ctx).InfoContext(ctx, "Refresh produced empty result, keeping previous value", "key", key)
		clearClaim()
		return
	}

	expiresAt := c.nowFunc().Add(c.ttlForKey(key))
	if err := c.store.Set(ctx, key, value, expiresAt); err != nil {
		reporting.Report(ctx, fmt.Errorf("cache: failed to store refreshed value: %w", err))
		clearClaim()
		return
	}
}

func (c *SWR[T]) ttlForKey(key string) time.Duration {
	if c.ttlFor != nil {
		if override := c.ttlFor(key); override > 0 {
			return override
		}
	}
	return c.ttl
}
