package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/enrich"
)

// PostgresClickStore is a PostgreSQL implementation of the append-only
// click.Store.
type PostgresClickStore struct {
	pool *pgxpool.Pool
}

// NewPostgresClickStore creates a new PostgreSQL-backed click store.
func NewPostgresClickStore(pool *pgxpool.Pool) *PostgresClickStore {
	return &PostgresClickStore{pool: pool}
}

func (s *PostgresClickStore) Append(ctx context.Context, e *click.Event) error {
	query := `
		INSERT INTO clicks (
			id, link_id, ts, ip, user_agent, device, browser, os, referrer,
			country, region, city, latitude, longitude
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		e.ID,
		e.LinkID,
		e.Timestamp,
		e.IP,
		e.UserAgent,
		string(e.Device),
		e.Browser,
		e.OS,
		e.Referrer,
		e.Location.Country,
		e.Location.Region,
		e.Location.City,
		e.Location.Latitude,
		e.Location.Longitude,
	)

	return err
}

func (s *PostgresClickStore) ListRange(ctx context.Context, linkID uuid.UUID, from, to time.Time) ([]*click.Event, error) {
	query := `
		SELECT id, link_id, ts, ip, user_agent, device, browser, os, referrer,
			country, region, city, latitude, longitude
		FROM clicks
		WHERE link_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`

	rows, err := s.pool.Query(ctx, query, linkID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*click.Event, 0)

	for rows.Next() {
		var (
			e      click.Event
			device string
		)

		err := rows.Scan(
			&e.ID,
			&e.LinkID,
			&e.Timestamp,
			&e.IP,
			&e.UserAgent,
			&device,
			&e.Browser,
			&e.OS,
			&e.Referrer,
			&e.Location.Country,
			&e.Location.Region,
			&e.Location.City,
			&e.Location.Latitude,
			&e.Location.Longitude,
		)
		if err != nil {
			return nil, err
		}

		e.Device = enrich.DeviceClass(device)
		events = append(events, &e)
	}

	return events, rows.Err()
}

var _ click.Store = (*PostgresClickStore)(nil)
