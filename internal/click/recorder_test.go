package click_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/enrich"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/store"
	"github.com/linklite/linklite/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type fixedLocator struct {
	loc *enrich.Location
	err error
}

func (f fixedLocator) Locate(context.Context, string) (*enrich.Location, error) {
	return f.loc, f.err
}

func seedLink(t *testing.T, mem *store.Memory) *link.Link {
	t.Helper()

	u := &user.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com"}
	require.NoError(t, mem.Create(context.Background(), u))

	l := &link.Link{
		ID:          uuid.New(),
		Code:        "abc123",
		OriginalURL: "https://example.com",
		UserID:      u.ID,
		Status:      link.StatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, mem.Save(context.Background(), l))

	return l
}

func TestHandleAccess(t *testing.T) {
	t.Run("persists an enriched, anonymized event", func(t *testing.T) {
		mem := store.NewMemory()
		l := seedLink(t, mem)

		lat, lon := 52.379, 4.9
		locator := fixedLocator{loc: &enrich.Location{
			Country:   "Netherlands",
			Region:    "North Holland",
			City:      "Amsterdam",
			Latitude:  &lat,
			Longitude: &lon,
		}}

		rec := click.NewRecorder(mem, mem, locator, zap.NewNop())

		ts := time.Now().Truncate(time.Second)
		err := rec.HandleAccess(context.Background(), &click.AccessEvent{
			LinkID:    l.ID,
			Slug:      l.Code,
			Timestamp: ts,
			ClientIP:  "203.0.113.45",
			UserAgent: chromeOnMac,
			Referrer:  "https://news.example.org/post",
		})
		require.NoError(t, err)

		events, err := mem.ListRange(context.Background(), l.ID, ts.Add(-time.Minute), ts.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, events, 1)

		ev := events[0]
		assert.Equal(t, "203.0.113.0", ev.IP, "full client address never reaches storage")
		assert.Equal(t, "Chrome", ev.Browser)
		assert.Equal(t, "macOS", ev.OS)
		assert.Equal(t, enrich.DeviceDesktop, ev.Device)
		assert.Equal(t, "https://news.example.org/post", ev.Referrer)
		assert.Equal(t, "Netherlands", ev.Location.Country)
		require.NotNil(t, ev.Location.Latitude)
		assert.Equal(t, 52.0, *ev.Location.Latitude)
		require.NotNil(t, ev.Location.Longitude)
		assert.Equal(t, 5.0, *ev.Location.Longitude)
	})

	t.Run("bumps the link click counter", func(t *testing.T) {
		mem := store.NewMemory()
		l := seedLink(t, mem)

		rec := click.NewRecorder(mem, mem, enrich.NoopLocator{}, zap.NewNop())

		ts := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, rec.HandleAccess(context.Background(), &click.AccessEvent{
				LinkID:    l.ID,
				Slug:      l.Code,
				Timestamp: ts,
				ClientIP:  "198.51.100.7",
			}))
		}

		got, err := mem.FindOwned(context.Background(), l.UserID, l.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Clicks)
		require.NotNil(t, got.LastClickAt)
	})

	t.Run("records the event even when geolocation fails", func(t *testing.T) {
		mem := store.NewMemory()
		l := seedLink(t, mem)

		rec := click.NewRecorder(mem, mem, fixedLocator{err: errors.New("upstream down")}, zap.NewNop())

		ts := time.Now()
		err := rec.HandleAccess(context.Background(), &click.AccessEvent{
			LinkID:    l.ID,
			Slug:      l.Code,
			Timestamp: ts,
			ClientIP:  "203.0.113.45",
			UserAgent: chromeOnMac,
		})
		require.NoError(t, err)

		events, err := mem.ListRange(context.Background(), l.ID, ts.Add(-time.Minute), ts.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Empty(t, events[0].Location.Country)
		assert.Nil(t, events[0].Location.Latitude)
	})

	t.Run("unparseable user agent yields placeholders", func(t *testing.T) {
		mem := store.NewMemory()
		l := seedLink(t, mem)

		rec := click.NewRecorder(mem, mem, enrich.NoopLocator{}, zap.NewNop())

		ts := time.Now()
		require.NoError(t, rec.HandleAccess(context.Background(), &click.AccessEvent{
			LinkID:    l.ID,
			Slug:      l.Code,
			Timestamp: ts,
			ClientIP:  "unknown",
		}))

		events, err := mem.ListRange(context.Background(), l.ID, ts.Add(-time.Minute), ts.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, enrich.UnknownField, events[0].Browser)
		assert.Equal(t, enrich.UnknownField, events[0].OS)
		assert.Equal(t, enrich.DeviceOther, events[0].Device)
		assert.Equal(t, "unknown", events[0].IP)
	})
}
