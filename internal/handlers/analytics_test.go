package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/analytics"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnalyticsFixture(t *testing.T) (*fixture, *handlers.AnalyticsHandler) {
	t.Helper()

	f := newFixture(t, noopPublish[click.AccessEvent]())
	agg := analytics.NewAggregator(f.mem, f.mem, nil, zap.NewNop())

	return f, handlers.NewAnalyticsHandler(agg, zap.NewNop())
}

func TestFetchAnalytics(t *testing.T) {
	t.Run("returns the summary for an owned link", func(t *testing.T) {
		f, handler := newAnalyticsFixture(t)
		created := f.shorten(t)

		linkID, err := uuid.Parse(created.Body.ID)
		require.NoError(t, err)

		require.NoError(t, f.mem.Append(context.Background(), &click.Event{
			ID:        uuid.New(),
			LinkID:    linkID,
			Timestamp: time.Now().Add(-time.Hour),
			Browser:   "Chrome",
		}))

		resp, err := handler.Fetch(f.authedCtx(), &handlers.AnalyticsRequest{URLID: created.Body.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Body.TotalClicks)
	})

	t.Run("requires authentication", func(t *testing.T) {
		f, handler := newAnalyticsFixture(t)
		created := f.shorten(t)

		_, err := handler.Fetch(context.Background(), &handlers.AnalyticsRequest{URLID: created.Body.ID})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("another user's link is not found", func(t *testing.T) {
		f, handler := newAnalyticsFixture(t)
		created := f.shorten(t)

		otherCtx := auth.ContextWithUserID(context.Background(), uuid.New())

		_, err := handler.Fetch(otherCtx, &handlers.AnalyticsRequest{URLID: created.Body.ID})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		f, handler := newAnalyticsFixture(t)

		_, err := handler.Fetch(f.authedCtx(), &handlers.AnalyticsRequest{URLID: "not-a-uuid"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}
