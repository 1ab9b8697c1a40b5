package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// How long an untouched entry survives before it is evicted outright.
// Expired-but-recently-used entries must outlive their expiry so they can be
// served stale while a refresh runs.
const DEFAULT_EVICT_AFTER = 24 * time.Hour

type memoryEntry[T any] struct {
	mutex      sync.Mutex
	value      T
	hasValue   bool
	expiresAt  time.Time
	refreshing bool
}

// Memory is an in-process Store. Each key gets its own lock so unrelated
// lookups never serialize.
type Memory[T any] struct {
	entries *ttlcache.Cache[string, *memoryEntry[T]]
}

func NewMemory[T any](evictAfter time.Duration) *Memory[T] {
	if evictAfter <= 0 {
		evictAfter = DEFAULT_EVICT_AFTER
	}
	entries := ttlcache.New[string, *memoryEntry[T]](
		ttlcache.WithTTL[string, *memoryEntry[T]](evictAfter),
	)
	go entries.Start()
	return &Memory[T]{entries: entries}
}

func (m *Memory[T]) Get(ctx context.Context, key string) (Entry[T], bool, error) {
	item := m.entries.Get(key)
	if item == nil {
		return Entry[T]{}, false, nil
	}

	entry := item.Value()
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if !entry.hasValue && !entry.refreshing {
		// Placeholder left over from an abandoned claim
		return Entry[T]{}, false, nil
	}

	return Entry[T]{
		Value:      entry.value,
		HasValue:   entry.hasValue,
		ExpiresAt:  entry.expiresAt,
		Refreshing: entry.refreshing,
	}, true, nil
}

func (m *Memory[T]) Set(ctx context.Context, key string, value T, expiresAt time.Time) error {
	entry := m.getOrCreate(key)
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	entry.value = value
	entry.hasValue = true
	entry.expiresAt = expiresAt
	entry.refreshing = false
	return nil
}

func (m *Memory[T]) ClaimRefresh(ctx context.Context, key string) (bool, error) {
	entry := m.getOrCreate(key)
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if entry.refreshing {
		return false, nil
	}
	entry.refreshing = true
	return true, nil
}

func (m *Memory[T]) ClearRefresh(ctx context.Context, key string) error {
	item := m.entries.Get(key)
	if item == nil {
		return nil
	}

	entry := item.Value()
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	entry.refreshing = false
	return nil
}

func (m *Memory[T]) Stop() {
	m.entries.Stop()
}

func (m *Memory[T]) getOrCreate(key string) *memoryEntry[T] {
	item, _ := m.entries.GetOrSet(key, &memoryEntry[T]{})
	return item.Value()
}

var _ Store[int] = (*Memory[int])(nil)
