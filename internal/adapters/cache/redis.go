package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// How long a refresh claim survives in redis. A worker that dies mid-refresh
// would otherwise leave its key refreshing forever.
const DEFAULT_CLAIM_TTL = 10 * time.Minute

type redisEntry[T any] struct {
	Value     T         `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Redis is a Store backed by a shared redis instance, for deployments where
// several replicas should share one backlink cache.
type Redis[T any] struct {
	client     redis.UniversalClient
	prefix     string
	evictAfter time.Duration
	claimTTL   time.Duration
}

func NewRedis[T any](client redis.UniversalClient, prefix string, evictAfter time.Duration) *Redis[T] {
	if evictAfter <= 0 {
		evictAfter = DEFAULT_EVICT_AFTER
	}
	return &Redis[T]{
		client:     client,
		prefix:     prefix,
		evictAfter: evictAfter,
		claimTTL:   DEFAULT_CLAIM_TTL,
	}
}

func (r *Redis[T]) entryKey(key string) string {
	return fmt.Sprintf("%s:entry:%s", r.prefix, key)
}

func (r *Redis[T]) claimKey(key string) string {
	return fmt.Sprintf("%s:refreshing:%s", r.prefix, key)
}

func (r *Redis[T]) Get(ctx context.Context, key string) (Entry[T], bool, error) {
	refreshing, err := r.client.Exists(ctx, r.claimKey(key)).Result()
	if err != nil {
		return Entry[T]{}, false, fmt.Errorf("redis: failed to check refresh claim: %w", err)
	}

	payload, err := r.client.Get(ctx, r.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		if refreshing > 0 {
			return Entry[T]{Refreshing: true}, true, nil
		}
		return Entry[T]{}, false, nil
	}
	if err != nil {
		return Entry[T]{}, false, fmt.Errorf("redis: failed to get entry: %w", err)
	}

	var stored redisEntry[T]
	if err := json.Unmarshal(payload, &stored); err != nil {
		return Entry[T]{}, false, fmt.Errorf("redis: failed to unmarshal entry: %w", err)
	}

	return Entry[T]{
		Value:      stored.Value,
		HasValue:   true,
		ExpiresAt:  stored.ExpiresAt,
		Refreshing: refreshing > 0,
	}, true, nil
}

func (r *Redis[T]) Set(ctx context.Context, key string, value T, expiresAt time.Time) error {
	payload, err := json.Marshal(redisEntry[T]{Value: value, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("redis: failed to marshal entry: %w", err)
	}

	// The redis TTL is eviction, not expiry: the entry must outlive its
	// expiry so it can be served stale
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.entryKey(key), payload, r.evictAfter)
	pipe.Del(ctx, r.claimKey(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: failed to set entry: %w", err)
	}
	return nil
}

func (r *Redis[T]) ClaimRefresh(ctx context.Context, key string) (bool, error) {
	claimed, err := r.client.SetNX(ctx, r.claimKey(key), "1", r.claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to claim refresh: %w", err)
	}
	return claimed, nil
}

func (r *Redis[T]) ClearRefresh(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.claimKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: failed to clear refresh claim: %w", err)
	}
	return nil
}

var _ Store[int] = (*Redis[int])(nil)
