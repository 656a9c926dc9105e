package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linklite/linklite/internal/link"
)

// PostgresLinkStore is a PostgreSQL implementation of link.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a new PostgreSQL-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

const linkColumns = `
	id, code, custom_alias, original_url, user_id, status, expires_at,
	password, title, description, tags, clicks, last_click_at, created_at, updated_at
`

func (s *PostgresLinkStore) Save(ctx context.Context, l *link.Link) error {
	query := `
		INSERT INTO links (
			id, code, custom_alias, original_url, user_id, status, expires_at,
			password, title, description, tags, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		l.ID,
		l.Code,
		nullableString(l.CustomAlias),
		l.OriginalURL,
		l.UserID,
		string(l.Status),
		l.ExpiresAt,
		nullableString(l.Password),
		l.Title,
		l.Description,
		l.Tags,
		l.CreatedAt,
		l.UpdatedAt,
	)

	return err
}

func (s *PostgresLinkStore) FindActiveBySlug(ctx context.Context, slug string) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE (code = $1 OR custom_alias = $1) AND status = 'active'
	`

	return s.queryOne(ctx, query, slug)
}

func (s *PostgresLinkStore) FindOwned(ctx context.Context, userID, id uuid.UUID) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE id = $1 AND user_id = $2
	`

	return s.queryOne(ctx, query, id, userID)
}

func (s *PostgresLinkStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*link.Link, 0)

	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	return links, rows.Err()
}

func (s *PostgresLinkStore) SlugInUse(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM links WHERE code = $1 OR custom_alias = $1)`

	var taken bool

	err := s.pool.QueryRow(ctx, query, slug).Scan(&taken)

	return taken, err
}

func (s *PostgresLinkStore) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	// Conditional on the current status so concurrent resolvers transition at
	// most once.
	query := `
		UPDATE links
		SET status = 'expired', updated_at = now()
		WHERE id = $1 AND status = 'active'
	`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *PostgresLinkStore) RecordClick(ctx context.Context, id uuid.UUID, at time.Time) error {
	// Single-statement increment; the click event log remains the
	// authoritative count.
	query := `
		UPDATE links
		SET clicks = clicks + 1, last_click_at = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := s.pool.Exec(ctx, query, id, at)

	return err
}

func (s *PostgresLinkStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	// Click events go with the link via the foreign key cascade.
	query := `DELETE FROM links WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (s *PostgresLinkStore) queryOne(ctx context.Context, query string, args ...any) (*link.Link, error) {
	row := s.pool.QueryRow(ctx, query, args...)

	l, err := scanLink(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return l, nil
}

func scanLink(row pgx.Row) (*link.Link, error) {
	var (
		l           link.Link
		customAlias *string
		password    *string
		status      string
	)

	err := row.Scan(
		&l.ID,
		&l.Code,
		&customAlias,
		&l.OriginalURL,
		&l.UserID,
		&status,
		&l.ExpiresAt,
		&password,
		&l.Title,
		&l.Description,
		&l.Tags,
		&l.Clicks,
		&l.LastClickAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Status = link.Status(status)

	if customAlias != nil {
		l.CustomAlias = *customAlias
	}

	if password != nil {
		l.Password = *password
	}

	return &l, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ link.Repository = (*PostgresLinkStore)(nil)
