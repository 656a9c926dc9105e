package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/analytics"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/link"
	"go.uber.org/zap"
)

// AnalyticsHandler serves per-link click analytics.
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	logger     *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(aggregator *analytics.Aggregator, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: aggregator, logger: logger}
}

// Fetch returns the aggregated analytics for one of the user's links.
func (h *AnalyticsHandler) Fetch(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	linkID, err := uuid.Parse(req.URLID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid url id")
	}

	rng := analytics.Range(req.Range)
	if rng == "" {
		rng = analytics.Range7d
	}

	summary, err := h.aggregator.Fetch(ctx, userID, linkID, rng)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to aggregate analytics",
			zap.String("link_id", req.URLID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to fetch analytics")
	}

	return &AnalyticsResponse{Body: *summary}, nil
}
