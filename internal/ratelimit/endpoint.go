package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey stores per-endpoint rate limit configuration in huma operation
// metadata.
const MetadataKey = "rateLimit"

// LimitConfig is one limit: at most Max requests inside Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig attaches rate limits to a single huma operation.
type EndpointConfig struct {
	// Limits applied to the endpoint, each tracked independently per client.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
