package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key inside a rolling window. The governor is a
// courtesy throttle, not a security boundary; implementations may be
// process-local and lose state on restart.
type Store interface {
	// Record registers one request for the key and returns how many requests
	// the key has made within the window, expired entries pruned.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
