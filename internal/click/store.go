package click

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for the append-only click event log.
type Store interface {
	Append(ctx context.Context, e *Event) error

	// ListRange returns the link's events with timestamps in [from, to],
	// ordered chronologically ascending.
	ListRange(ctx context.Context, linkID uuid.UUID, from, to time.Time) ([]*Event, error)
}
