package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linklite/linklite/internal/user"
)

// PostgresUserStore is a PostgreSQL implementation of user.Repository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const uniqueViolation = "23505"

func (s *PostgresUserStore) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, name, email, password_hash, role,
			total_urls, total_clicks, monthly_quota, remaining_quota,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.TotalURLs,
		u.TotalClicks,
		u.MonthlyQuota,
		u.RemainingQuota,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return err
	}

	return nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := userSelect + ` WHERE email = $1`

	return s.queryOne(ctx, query, email)
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := userSelect + ` WHERE id = $1`

	return s.queryOne(ctx, query, id)
}

// ConsumeQuota is a single conditional decrement so two concurrent creations
// cannot both pass an exhausted quota.
func (s *PostgresUserStore) ConsumeQuota(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET remaining_quota = remaining_quota - 1,
			total_urls = total_urls + 1,
			updated_at = now()
		WHERE id = $1 AND remaining_quota > 0
	`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrQuotaExceeded
	}

	return nil
}

func (s *PostgresUserStore) RefundQuota(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET remaining_quota = remaining_quota + 1,
			total_urls = total_urls - 1,
			updated_at = now()
		WHERE id = $1
	`

	_, err := s.pool.Exec(ctx, query, id)

	return err
}

const userSelect = `
	SELECT id, name, email, password_hash, role,
		total_urls, total_clicks, monthly_quota, remaining_quota,
		created_at, updated_at
	FROM users
`

func (s *PostgresUserStore) queryOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User

	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.TotalURLs,
		&u.TotalClicks,
		&u.MonthlyQuota,
		&u.RemainingQuota,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, err
	}

	return &u, nil
}

var _ user.Repository = (*PostgresUserStore)(nil)
