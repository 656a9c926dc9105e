package link_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/store"
	"github.com/linklite/linklite/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURL = "https://example.com/very/long/path"

func newTestService(t *testing.T, mem *store.Memory) *link.Service {
	t.Helper()

	gen, err := nanoid.CustomASCII("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", link.CodeLength)
	require.NoError(t, err)

	return link.NewService(mem, mem, nil, gen, zap.NewNop())
}

func seedUser(t *testing.T, mem *store.Memory, quota int64) uuid.UUID {
	t.Helper()

	u := &user.User{
		ID:             uuid.New(),
		Name:           "Test User",
		Email:          uuid.NewString() + "@example.com",
		MonthlyQuota:   quota,
		RemainingQuota: quota,
	}
	require.NoError(t, mem.Create(context.Background(), u))

	return u.ID
}

func TestCreate(t *testing.T) {
	t.Run("creates an active link with a generated code", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		l, err := svc.Create(context.Background(), userID, link.CreateInput{OriginalURL: testURL})

		require.NoError(t, err)
		assert.Len(t, l.Code, link.CodeLength)
		assert.Equal(t, link.StatusActive, l.Status)
		assert.Equal(t, userID, l.UserID)

		got, err := mem.FindActiveBySlug(context.Background(), l.Code)
		require.NoError(t, err)
		assert.Equal(t, testURL, got.OriginalURL)
	})

	t.Run("consumes one quota unit per link", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 2)

		_, err := svc.Create(context.Background(), userID, link.CreateInput{OriginalURL: testURL})
		require.NoError(t, err)

		u, err := mem.FindByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.RemainingQuota)
		assert.Equal(t, int64(1), u.TotalURLs)
	})

	t.Run("rejects creation when quota is exhausted", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 0)

		l, err := svc.Create(context.Background(), userID, link.CreateInput{OriginalURL: testURL})

		assert.Nil(t, l)
		assert.ErrorIs(t, err, user.ErrQuotaExceeded)

		links, err := mem.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, links, "no partial state after a refused creation")

		u, err := mem.FindByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), u.RemainingQuota)
	})

	t.Run("accepts a valid custom alias", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		l, err := svc.Create(context.Background(), userID, link.CreateInput{
			OriginalURL: testURL,
			CustomAlias: "my-link_1",
		})

		require.NoError(t, err)
		assert.Equal(t, "my-link_1", l.CustomAlias)
		assert.Equal(t, "my-link_1", l.Slug())
	})

	t.Run("rejects malformed aliases", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		for _, alias := range []string{"ab", "UPPER", "has space", "bad!chars", "x"} {
			_, err := svc.Create(context.Background(), userID, link.CreateInput{
				OriginalURL: testURL,
				CustomAlias: alias,
			})

			assert.ErrorIs(t, err, link.ErrInvalidAlias, "alias %q", alias)
		}
	})

	t.Run("rejects an alias equal to an existing code", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		existing := &link.Link{
			ID:          uuid.New(),
			Code:        "abc123",
			OriginalURL: testURL,
			UserID:      userID,
			Status:      link.StatusActive,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		require.NoError(t, mem.Save(context.Background(), existing))

		_, err := svc.Create(context.Background(), userID, link.CreateInput{
			OriginalURL: testURL,
			CustomAlias: "abc123",
		})
		assert.ErrorIs(t, err, link.ErrAliasTaken)
	})

	t.Run("rejects invalid destination URLs", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		for _, raw := range []string{"", "   ", "notaurl", "ftp://example.com/file", "http://"} {
			_, err := svc.Create(context.Background(), userID, link.CreateInput{OriginalURL: raw})

			assert.ErrorIs(t, err, link.ErrInvalidURL, "url %q", raw)
		}
	})

	t.Run("alias collision leaves quota untouched", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 5)

		_, err := svc.Create(context.Background(), userID, link.CreateInput{
			OriginalURL: testURL,
			CustomAlias: "the-alias",
		})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), userID, link.CreateInput{
			OriginalURL: testURL,
			CustomAlias: "the-alias",
		})
		require.ErrorIs(t, err, link.ErrAliasTaken)

		u, err := mem.FindByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), u.RemainingQuota, "only the successful creation consumed quota")
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes the link and its click events", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		userID := seedUser(t, mem, 10)

		l, err := svc.Create(context.Background(), userID, link.CreateInput{OriginalURL: testURL})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), userID, l.ID))

		_, err = mem.FindActiveBySlug(context.Background(), l.Code)
		assert.ErrorIs(t, err, link.ErrNotFound)

		events, err := mem.ListRange(context.Background(), l.ID, time.Time{}, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("refuses to delete another user's link", func(t *testing.T) {
		mem := store.NewMemory()
		svc := newTestService(t, mem)
		owner := seedUser(t, mem, 10)
		other := seedUser(t, mem, 10)

		l, err := svc.Create(context.Background(), owner, link.CreateInput{OriginalURL: testURL})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), other, l.ID)
		assert.ErrorIs(t, err, link.ErrNotFound)

		_, err = mem.FindActiveBySlug(context.Background(), l.Code)
		assert.NoError(t, err, "link survives a foreign delete attempt")
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()

	t.Run("no expiry never expires", func(t *testing.T) {
		l := &link.Link{}
		assert.False(t, l.Expired(now))
	})

	t.Run("future expiry is not expired", func(t *testing.T) {
		future := now.Add(time.Hour)
		l := &link.Link{ExpiresAt: &future}
		assert.False(t, l.Expired(now))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		past := now.Add(-time.Hour)
		l := &link.Link{ExpiresAt: &past}
		assert.True(t, l.Expired(now))
	})
}
