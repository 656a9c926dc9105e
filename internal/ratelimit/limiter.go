package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request from the given identity should proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter allows up to a fixed number of requests per identity
// inside a rolling window, backed by a pluggable Store.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}
