package link

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CodeGenerator produces candidate short codes.
type CodeGenerator func() string

// Quota consumes and refunds units of a user's monthly link-creation quota.
// ConsumeQuota must be a conditional decrement-if-positive so that concurrent
// creations cannot both pass an exhausted quota.
type Quota interface {
	ConsumeQuota(ctx context.Context, userID uuid.UUID) error
	RefundQuota(ctx context.Context, userID uuid.UUID) error
}

// RollupInvalidator drops cached analytics rollups for a link when the link
// is deleted.
type RollupInvalidator interface {
	Invalidate(ctx context.Context, linkID uuid.UUID) error
}

// CreateInput carries the user-supplied fields of a new link.
type CreateInput struct {
	OriginalURL string
	CustomAlias string
	ExpiresAt   *time.Time
	Password    string
	Title       string
	Description string
	Tags        []string
}

// Service implements link creation, listing, and deletion.
type Service struct {
	repo         Repository
	quota        Quota
	rollups      RollupInvalidator // may be nil
	generateCode CodeGenerator
	logger       *zap.Logger
}

// NewService creates a new link service. The rollup invalidator is optional.
func NewService(repo Repository, quota Quota, rollups RollupInvalidator, generator CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		quota:        quota,
		rollups:      rollups,
		generateCode: generator,
		logger:       logger,
	}
}

// maxCodeAttempts bounds the regenerate-and-recheck loop for code collisions.
const maxCodeAttempts = 5

// Create validates the input, consumes one quota unit, and persists a new
// active link. A custom alias collision is reported as ErrAliasTaken, never
// resolved by renaming.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Link, error) {
	if err := validateURL(in.OriginalURL); err != nil {
		return nil, err
	}

	if in.CustomAlias != "" {
		if err := ValidateAlias(in.CustomAlias); err != nil {
			return nil, err
		}

		taken, err := s.repo.SlugInUse(ctx, in.CustomAlias)
		if err != nil {
			return nil, err
		}

		if taken {
			return nil, ErrAliasTaken
		}
	}

	code := in.CustomAlias
	if code == "" {
		var err error

		code, err = s.uniqueCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := s.quota.ConsumeQuota(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &Link{
		ID:          uuid.New(),
		Code:        code,
		CustomAlias: in.CustomAlias,
		OriginalURL: in.OriginalURL,
		UserID:      userID,
		Status:      StatusActive,
		ExpiresAt:   in.ExpiresAt,
		Password:    in.Password,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Save(ctx, l); err != nil {
		// The quota unit was already consumed; give it back so a failed save
		// leaves no partial state.
		if rerr := s.quota.RefundQuota(ctx, userID); rerr != nil {
			s.logger.Error("failed to refund quota after save failure",
				zap.String("user_id", userID.String()),
				zap.Error(rerr),
			)
		}

		return nil, err
	}

	return l, nil
}

// List returns the user's links, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Link, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes the user's link and cascades to its click events and rollups.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if s.rollups != nil {
		if err := s.rollups.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate analytics rollups",
				zap.String("link_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	for range maxCodeAttempts {
		code := s.generateCode()

		taken, err := s.repo.SlugInUse(ctx, code)
		if err != nil {
			return "", err
		}

		if !taken {
			return code, nil
		}
	}

	return "", ErrCodeSpace
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
