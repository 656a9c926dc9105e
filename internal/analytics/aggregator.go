package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/link"
	"go.uber.org/zap"
)

// Aggregator serves per-link analytics summaries. Ownership is verified
// before any click event is read; a mismatch is reported as link.ErrNotFound
// so existence never leaks across ownership boundaries.
type Aggregator struct {
	links  link.Repository
	clicks click.Store
	cache  RollupCache // may be nil
	logger *zap.Logger
	now    func() time.Time
}

// NewAggregator creates a new analytics aggregator. The cache is optional.
func NewAggregator(links link.Repository, clicks click.Store, cache RollupCache, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		links:  links,
		clicks: clicks,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch returns the summary for the user's link over the named range,
// serving a cached rollup when one exists.
func (a *Aggregator) Fetch(ctx context.Context, userID, linkID uuid.UUID, rng Range) (*Summary, error) {
	if _, err := a.links.FindOwned(ctx, userID, linkID); err != nil {
		return nil, err
	}

	if a.cache != nil {
		if summary, err := a.cache.Get(ctx, linkID, rng); err == nil && summary != nil {
			return summary, nil
		}
	}

	from, to := rng.Window(a.now().UTC())

	events, err := a.clicks.ListRange(ctx, linkID, from, to)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(events)

	if a.cache != nil {
		if err := a.cache.Put(ctx, linkID, rng, summary); err != nil {
			a.logger.Warn("failed to cache analytics rollup",
				zap.String("link_id", linkID.String()),
				zap.Error(err),
			)
		}
	}

	return summary, nil
}
