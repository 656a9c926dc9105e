package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter applies the rate limits attached to each operation's metadata.
// Authenticated requests are tracked per user; anonymous ones per hashed
// IP + User-Agent pair.
func RateLimiter(api huma.API, store ratelimit.Store, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg == nil || cfg.Disabled || len(cfg.Limits) == 0 {
			next(ctx)

			return
		}

		identity := clientKey(ctx)
		path := operationPath(ctx)

		for _, limit := range cfg.Limits {
			// Each window is tracked independently per client and route.
			key := fmt.Sprintf("%s:%s:%d", identity, path, limit.Window.Milliseconds())

			count, err := store.Record(ctx.Context(), key, limit.Window)
			if err != nil {
				logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

				return
			}

			if count > limit.Max {
				logger.Warn("rate limit exceeded",
					zap.String("path", path),
					zap.String("method", ctx.Method()),
					zap.Int64("count", count),
					zap.Int64("max", limit.Max),
					zap.Duration("window", limit.Window),
				)
				_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests,
					fmt.Sprintf("rate limit exceeded: %d/%d requests in %s", count, limit.Max, limit.Window))

				return
			}
		}

		next(ctx)
	}
}

// clientKey identifies the caller: the authenticated user when present,
// otherwise a hash of IP and User-Agent.
func clientKey(ctx huma.Context) string {
	if userID, ok := auth.UserIDFromContext(ctx.Context()); ok {
		return "user:" + userID.String()
	}

	sum := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return "anon:" + hex.EncodeToString(sum[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
