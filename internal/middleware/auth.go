package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linklite/linklite/internal/auth"
)

// Authenticate verifies the bearer token on operations marked with
// auth.MetadataKey and places the user ID in the request context. Unmarked
// operations pass through untouched.
func Authenticate(api huma.API, tokens *auth.TokenManager) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx) {
			next(ctx)

			return
		}

		header := ctx.Header("Authorization")
		if header == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")

			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authorization header must be: Bearer {token}")

			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		ctx = huma.WithContext(ctx, auth.ContextWithUserID(ctx.Context(), userID))

		next(ctx)
	}
}

func requiresAuth(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	required, ok := op.Metadata[auth.MetadataKey].(bool)

	return ok && required
}
