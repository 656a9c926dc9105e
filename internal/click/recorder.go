package click

import (
	"context"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/enrich"
	"github.com/linklite/linklite/internal/link"
	"go.uber.org/zap"
)

// Recorder turns raw access events into persisted click events. It runs off
// the redirect path; its failures are reported to the message pipeline and
// logged, never to the client that was redirected.
type Recorder struct {
	links   link.Repository
	store   Store
	locator enrich.Locator
	logger  *zap.Logger
}

// NewRecorder creates a new click recorder.
func NewRecorder(links link.Repository, store Store, locator enrich.Locator, logger *zap.Logger) *Recorder {
	return &Recorder{
		links:   links,
		store:   store,
		locator: locator,
		logger:  logger,
	}
}

// HandleAccess enriches and persists one access event, then increments the
// link's click counter. The counter bump is best-effort: the event log is the
// authoritative count for analytics.
func (r *Recorder) HandleAccess(ctx context.Context, ev *AccessEvent) error {
	agent := enrich.ParseUserAgent(ev.UserAgent)

	loc, err := r.locator.Locate(ctx, ev.ClientIP)
	if err != nil {
		// Proceed without location data.
		r.logger.Warn("geolocation failed", zap.String("slug", ev.Slug), zap.Error(err))

		loc = nil
	}

	e := &Event{
		ID:        uuid.New(),
		LinkID:    ev.LinkID,
		Timestamp: ev.Timestamp,
		IP:        AnonymizeIP(ev.ClientIP),
		UserAgent: ev.UserAgent,
		Device:    agent.Device,
		Browser:   agent.Browser,
		OS:        agent.OS,
		Referrer:  ev.Referrer,
		Location:  roundedLocation(loc),
	}

	if err := r.store.Append(ctx, e); err != nil {
		return err
	}

	if err := r.links.RecordClick(ctx, ev.LinkID, ev.Timestamp); err != nil {
		r.logger.Error("failed to increment click counter",
			zap.String("link_id", ev.LinkID.String()),
			zap.Error(err),
		)
	}

	return nil
}

func roundedLocation(loc *enrich.Location) Location {
	if loc == nil {
		return Location{}
	}

	out := Location{
		Country: loc.Country,
		Region:  loc.Region,
		City:    loc.City,
	}

	if loc.Latitude != nil {
		lat := RoundCoordinate(*loc.Latitude)
		out.Latitude = &lat
	}

	if loc.Longitude != nil {
		lon := RoundCoordinate(*loc.Longitude)
		out.Longitude = &lon
	}

	return out
}
