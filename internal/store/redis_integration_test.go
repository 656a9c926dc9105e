//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestCachedLinkStoreIntegration(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	t.Run("second lookup hits the cache", func(t *testing.T) {
		mem := store.NewMemory()
		cached := store.NewCachedLinkStore(mem, client, time.Minute)

		l := &link.Link{
			ID:          uuid.New(),
			Code:        uuid.NewString()[:8],
			OriginalURL: "https://example.com",
			UserID:      uuid.New(),
			Status:      link.StatusActive,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		require.NoError(t, cached.Save(ctx, l))

		first, err := cached.FindActiveBySlug(ctx, l.Code)
		require.NoError(t, err)

		// Drop the backing record; a cached copy must still resolve.
		require.NoError(t, mem.Delete(ctx, l.UserID, l.ID))

		second, err := cached.FindActiveBySlug(ctx, l.Code)
		require.NoError(t, err)
		assert.Equal(t, first.OriginalURL, second.OriginalURL)
	})

	t.Run("delete invalidates the cached entry", func(t *testing.T) {
		mem := store.NewMemory()
		cached := store.NewCachedLinkStore(mem, client, time.Minute)

		l := &link.Link{
			ID:          uuid.New(),
			Code:        uuid.NewString()[:8],
			OriginalURL: "https://example.com",
			UserID:      uuid.New(),
			Status:      link.StatusActive,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		require.NoError(t, cached.Save(ctx, l))

		_, err := cached.FindActiveBySlug(ctx, l.Code)
		require.NoError(t, err)

		require.NoError(t, cached.Delete(ctx, l.UserID, l.ID))

		_, err = cached.FindActiveBySlug(ctx, l.Code)
		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	s := store.NewRateLimitRedisStore(client)
	key := "test:" + uuid.NewString()

	for want := int64(1); want <= 3; want++ {
		count, err := s.Record(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	t.Cleanup(func() {
		_ = client.Del(ctx, key).Err()
	})
}
