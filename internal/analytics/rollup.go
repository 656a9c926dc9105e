package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RollupCache stores precomputed summaries with a retention TTL.
type RollupCache interface {
	Get(ctx context.Context, linkID uuid.UUID, rng Range) (*Summary, error)
	Put(ctx context.Context, linkID uuid.UUID, rng Range, summary *Summary) error

	// Invalidate drops every rollup for the link, for all ranges.
	Invalidate(ctx context.Context, linkID uuid.UUID) error
}

// RedisRollupCache keeps serialized summaries in Redis under a per-link,
// per-range key with key expiry as the retention mechanism.
type RedisRollupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRollupCache creates a rollup cache with the given retention TTL.
func NewRedisRollupCache(client *redis.Client, ttl time.Duration) *RedisRollupCache {
	return &RedisRollupCache{client: client, ttl: ttl}
}

func rollupKey(linkID uuid.UUID, rng Range) string {
	return fmt.Sprintf("rollup:%s:%s", linkID, rng)
}

func (c *RedisRollupCache) Get(ctx context.Context, linkID uuid.UUID, rng Range) (*Summary, error) {
	raw, err := c.client.Get(ctx, rollupKey(linkID, rng)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (c *RedisRollupCache) Put(ctx context.Context, linkID uuid.UUID, rng Range, summary *Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, rollupKey(linkID, rng), raw, c.ttl).Err()
}

func (c *RedisRollupCache) Invalidate(ctx context.Context, linkID uuid.UUID) error {
	keys := []string{
		rollupKey(linkID, Range7d),
		rollupKey(linkID, Range30d),
		rollupKey(linkID, Range90d),
	}

	return c.client.Del(ctx, keys...).Err()
}

var _ RollupCache = (*RedisRollupCache)(nil)
