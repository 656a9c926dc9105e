package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/user"
	"go.uber.org/zap"
)

// AccountHandler handles signup and login.
type AccountHandler struct {
	users  user.Repository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(users user.Repository, tokens *auth.TokenManager, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a user and issues a session token.
func (h *AccountHandler) Signup(ctx context.Context, req *SignupRequest) (*SessionResponse, error) {
	hash, err := auth.HashPassword(req.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create account")
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:             uuid.New(),
		Name:           req.Body.Name,
		Email:          req.Body.Email,
		PasswordHash:   hash,
		Role:           "user",
		MonthlyQuota:   user.DefaultMonthlyQuota,
		RemainingQuota: user.DefaultMonthlyQuota,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, huma.Error409Conflict("email already registered")
		}

		h.logger.Error("failed to create user", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create account")
	}

	return h.session(u)
}

// Login verifies credentials and issues a session token. Invalid email and
// invalid password produce the same response.
func (h *AccountHandler) Login(ctx context.Context, req *LoginRequest) (*SessionResponse, error) {
	u, err := h.users.FindByEmail(ctx, req.Body.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}

		h.logger.Error("failed to load user", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to sign in")
	}

	if !auth.CheckPassword(u.PasswordHash, req.Body.Password) {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	return h.session(u)
}

func (h *AccountHandler) session(u *user.User) (*SessionResponse, error) {
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to issue session token")
	}

	resp := &SessionResponse{}
	resp.Body.Token = token
	resp.Body.UserID = u.ID.String()
	resp.Body.Name = u.Name
	resp.Body.Email = u.Email
	resp.Body.RemainingQuota = u.RemainingQuota

	return resp, nil
}
