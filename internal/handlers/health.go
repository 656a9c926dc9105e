package handlers

import (
	"context"
)

// Pinger checks connectivity of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to the Pinger interface.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports the status of the service and its dependencies.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
		Redis    string `json:"redis"`
	}
}

// Check pings the dependencies and reports a degraded status when any fails.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Postgres = "healthy"
	resp.Body.Redis = "healthy"

	if err := h.postgres.Ping(ctx); err != nil {
		resp.Body.Postgres = "unhealthy"
		resp.Body.Status = "degraded"
	}

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	}

	return resp, nil
}
