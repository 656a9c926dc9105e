package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linklite/linklite/internal/handlers"
)

// RequestMeta adds the caller's IP, user-agent, and referrer to the request
// context for the resolver's click pipeline.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		ctx = huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta))

		next(ctx)
	}
}

// clientIP prefers the forwarded-for header, then the real-IP header, and
// reports "unknown" when neither is present.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// First entry is the original client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	return "unknown"
}
