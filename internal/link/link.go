package link

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a link.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
	StatusFlagged  Status = "flagged"
)

var (
	ErrNotFound     = errors.New("link not found")
	ErrAliasTaken   = errors.New("alias already in use")
	ErrInvalidURL   = errors.New("invalid destination url")
	ErrInvalidAlias = errors.New("invalid alias")
	ErrCodeSpace    = errors.New("could not generate a unique code")
)

// CodeLength is the length of generated short codes.
const CodeLength = 6

// aliasPattern is the accepted charset and length for custom aliases.
var aliasPattern = regexp.MustCompile(`^[a-z0-9_-]{3,30}$`)

// Link maps a short code (or custom alias) to a destination URL owned by a user.
type Link struct {
	ID          uuid.UUID
	Code        string
	CustomAlias string // empty unless the user chose one; shares the code namespace
	OriginalURL string
	UserID      uuid.UUID
	Status      Status
	ExpiresAt   *time.Time
	Password    string // stored but never consulted by resolution
	Title       string
	Description string
	Tags        []string
	Clicks      int64
	LastClickAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the link's expiry timestamp has passed at the given instant.
// Links without an expiry never expire.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// Slug returns the path segment the link resolves under.
func (l *Link) Slug() string {
	if l.CustomAlias != "" {
		return l.CustomAlias
	}

	return l.Code
}

// ValidateAlias checks a user-supplied alias against the charset and length policy.
func ValidateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return ErrInvalidAlias
	}

	return nil
}
