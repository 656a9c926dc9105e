package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrQuotaExceeded = errors.New("monthly quota exceeded")
)

// DefaultMonthlyQuota is the link-creation allowance assigned at signup.
const DefaultMonthlyQuota = 1000

// User owns links and carries a monthly link-creation quota.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	TotalURLs      int64
	TotalClicks    int64
	MonthlyQuota   int64
	RemainingQuota int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Repository defines the interface for user storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// ConsumeQuota decrements the remaining quota by one and bumps the URL
	// counter, but only while the remaining quota is positive. Returns
	// ErrQuotaExceeded when nothing could be consumed.
	ConsumeQuota(ctx context.Context, id uuid.UUID) error

	// RefundQuota reverses a ConsumeQuota after a failed link save.
	RefundQuota(ctx context.Context, id uuid.UUID) error
}
