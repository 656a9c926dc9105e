package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/user"
)

// Memory is an in-memory implementation of the link, click, and user stores,
// used by unit tests. Delete cascades click events like the real store.
type Memory struct {
	mu     sync.RWMutex
	links  map[uuid.UUID]link.Link
	clicks map[uuid.UUID][]click.Event
	users  map[uuid.UUID]user.User
	emails map[string]uuid.UUID
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		links:  make(map[uuid.UUID]link.Link),
		clicks: make(map[uuid.UUID][]click.Event),
		users:  make(map[uuid.UUID]user.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (m *Memory) Save(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[l.ID] = *l

	return nil
}

func (m *Memory) FindActiveBySlug(_ context.Context, slug string) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if (l.Code == slug || l.CustomAlias == slug) && l.Status == link.StatusActive {
			out := l

			return &out, nil
		}
	}

	return nil, link.ErrNotFound
}

func (m *Memory) FindOwned(_ context.Context, userID, id uuid.UUID) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[id]
	if !ok || l.UserID != userID {
		return nil, link.ErrNotFound
	}

	out := l

	return &out, nil
}

func (m *Memory) ListByUser(_ context.Context, userID uuid.UUID) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*link.Link, 0)

	for _, l := range m.links {
		if l.UserID == userID {
			cp := l
			out = append(out, &cp)
		}
	}

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	return out, nil
}

func (m *Memory) SlugInUse(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.Code == slug || l.CustomAlias == slug {
			return true, nil
		}
	}

	return false, nil
}

func (m *Memory) MarkExpired(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok || l.Status != link.StatusActive {
		return false, nil
	}

	l.Status = link.StatusExpired
	l.UpdatedAt = time.Now().UTC()
	m.links[id] = l

	return true, nil
}

func (m *Memory) RecordClick(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return link.ErrNotFound
	}

	l.Clicks++
	l.LastClickAt = &at
	m.links[id] = l

	return nil
}

func (m *Memory) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok || l.UserID != userID {
		return link.ErrNotFound
	}

	delete(m.links, id)
	delete(m.clicks, id)

	return nil
}

func (m *Memory) Append(_ context.Context, e *click.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks[e.LinkID] = append(m.clicks[e.LinkID], *e)

	return nil
}

func (m *Memory) ListRange(_ context.Context, linkID uuid.UUID, from, to time.Time) ([]*click.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*click.Event, 0)

	for _, e := range m.clicks[linkID] {
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}

		cp := e
		out = append(out, &cp)
	}

	return out, nil
}

func (m *Memory) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emails[u.Email]; taken {
		return user.ErrEmailTaken
	}

	m.users[u.ID] = *u
	m.emails[u.Email] = u.ID

	return nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, user.ErrNotFound
	}

	u := m.users[id]

	return &u, nil
}

func (m *Memory) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	return &u, nil
}

func (m *Memory) ConsumeQuota(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.RemainingQuota <= 0 {
		return user.ErrQuotaExceeded
	}

	u.RemainingQuota--
	u.TotalURLs++
	m.users[id] = u

	return nil
}

func (m *Memory) RefundQuota(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}

	u.RemainingQuota++
	u.TotalURLs--
	m.users[id] = u

	return nil
}

var (
	_ link.Repository = (*Memory)(nil)
	_ click.Store     = (*Memory)(nil)
	_ user.Repository = (*Memory)(nil)
)
