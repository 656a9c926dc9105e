package link

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for link storage.
type Repository interface {
	Save(ctx context.Context, l *Link) error

	// FindActiveBySlug returns the single active link whose code or custom
	// alias equals the given path segment. Returns ErrNotFound when no active
	// link matches.
	FindActiveBySlug(ctx context.Context, slug string) (*Link, error)

	// FindOwned returns the link only if it belongs to the given user.
	// An ownership mismatch is indistinguishable from a missing link.
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*Link, error)

	// ListByUser returns the user's links, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Link, error)

	// SlugInUse reports whether the segment is taken by any code or alias.
	SlugInUse(ctx context.Context, slug string) (bool, error)

	// MarkExpired transitions the link from active to expired. The update is
	// conditional on the current status so concurrent resolvers do not write
	// the transition twice. Returns true if this call performed the transition.
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)

	// RecordClick increments the link's click counter and last-click timestamp.
	RecordClick(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes the user's link together with its click events and any
	// analytics rollups. Returns ErrNotFound if the link does not exist or is
	// not owned by the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
