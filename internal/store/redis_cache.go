package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/link"
	"github.com/redis/go-redis/v9"
)

// CachedLinkStore wraps a link.Repository with Redis caching for resolution
// reads. Resolution is the hot path; everything else passes through and
// invalidates.
type CachedLinkStore struct {
	inner  link.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedLinkStore creates a Redis-cached repository decorator.
func NewCachedLinkStore(inner link.Repository, client *redis.Client, ttl time.Duration) *CachedLinkStore {
	return &CachedLinkStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func slugKey(slug string) string {
	return "link:slug:" + slug
}

func idKey(id uuid.UUID) string {
	return "link:id:" + id.String()
}

func (c *CachedLinkStore) FindActiveBySlug(ctx context.Context, slug string) (*link.Link, error) {
	if raw, err := c.client.Get(ctx, slugKey(slug)).Bytes(); err == nil {
		var l link.Link
		if err := json.Unmarshal(raw, &l); err == nil {
			return &l, nil
		}
	}

	l, err := c.inner.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, slug, l)

	return l, nil
}

func (c *CachedLinkStore) Save(ctx context.Context, l *link.Link) error {
	return c.inner.Save(ctx, l)
}

func (c *CachedLinkStore) FindOwned(ctx context.Context, userID, id uuid.UUID) (*link.Link, error) {
	return c.inner.FindOwned(ctx, userID, id)
}

func (c *CachedLinkStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*link.Link, error) {
	return c.inner.ListByUser(ctx, userID)
}

func (c *CachedLinkStore) SlugInUse(ctx context.Context, slug string) (bool, error) {
	return c.inner.SlugInUse(ctx, slug)
}

func (c *CachedLinkStore) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	transitioned, err := c.inner.MarkExpired(ctx, id)
	if err != nil {
		return false, err
	}

	if transitioned {
		c.invalidate(ctx, id)
	}

	return transitioned, nil
}

func (c *CachedLinkStore) RecordClick(ctx context.Context, id uuid.UUID, at time.Time) error {
	// The counter is not part of the cached resolution payload's contract;
	// the cache entry expires on its TTL.
	return c.inner.RecordClick(ctx, id, at)
}

func (c *CachedLinkStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, userID, id); err != nil {
		return err
	}

	c.invalidate(ctx, id)

	return nil
}

func (c *CachedLinkStore) cache(ctx context.Context, slug string, l *link.Link) {
	raw, err := json.Marshal(l)
	if err != nil {
		return
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, slugKey(slug), raw, c.ttl)
	// Index by ID so expiry and deletion can drop the slug entry.
	pipe.Set(ctx, idKey(l.ID), slug, c.ttl)
	_, _ = pipe.Exec(ctx)
}

func (c *CachedLinkStore) invalidate(ctx context.Context, id uuid.UUID) {
	slug, err := c.client.Get(ctx, idKey(id)).Result()
	if err != nil {
		return
	}

	_, _ = c.client.Del(ctx, slugKey(slug), idKey(id)).Result()
}

var _ link.Repository = (*CachedLinkStore)(nil)
