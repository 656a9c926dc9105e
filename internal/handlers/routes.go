package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/ratelimit"
)

// RegisterRoutes registers the public resolver, the authenticated API, and
// the account endpoints.
func RegisterRoutes(api huma.API, links *LinkHandler, analytics *AnalyticsHandler, accounts *AccountHandler, health *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-link",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Resolve short link",
		Description: "Redirects to the destination URL and records the click.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, links.Resolve)

	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/api/shorten",
		Summary:       "Create short link",
		Description:   "Creates a short link owned by the authenticated user. Consumes one unit of the monthly quota.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			auth.MetadataKey: true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
				},
			},
		},
	}, links.CreateShortLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/urls",
		Summary:     "List links",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/api/urls/{id}",
		Summary:     "Delete link",
		Description: "Deletes the link and cascades to its click events and analytics rollups.",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "fetch-analytics",
		Method:      http.MethodGet,
		Path:        "/api/analytics",
		Summary:     "Fetch link analytics",
		Tags:        []string{"Analytics"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, analytics.Fetch)

	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/auth/signup",
		Summary:       "Sign up",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
				},
			},
		},
	}, accounts.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
				},
			},
		},
	}, accounts.Login)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, health.Check)
}
