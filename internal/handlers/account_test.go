package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/handlers"
	"github.com/linklite/linklite/internal/store"
	"github.com/linklite/linklite/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccountHandler(mem *store.Memory) (*handlers.AccountHandler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return handlers.NewAccountHandler(mem, tokens, zap.NewNop()), tokens
}

func signupRequest() *handlers.SignupRequest {
	req := &handlers.SignupRequest{}
	req.Body.Name = "Test User"
	req.Body.Email = "test@example.com"
	req.Body.Password = "correct horse battery"

	return req
}

func TestSignup(t *testing.T) {
	t.Run("creates the account and returns a usable token", func(t *testing.T) {
		mem := store.NewMemory()
		handler, tokens := newAccountHandler(mem)

		resp, err := handler.Signup(context.Background(), signupRequest())
		require.NoError(t, err)

		assert.Equal(t, "test@example.com", resp.Body.Email)
		assert.Equal(t, int64(user.DefaultMonthlyQuota), resp.Body.RemainingQuota)

		userID, err := tokens.Verify(resp.Body.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.Body.UserID, userID.String())

		u, err := mem.FindByEmail(context.Background(), "test@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", u.PasswordHash, "password is stored hashed")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		mem := store.NewMemory()
		handler, _ := newAccountHandler(mem)

		_, err := handler.Signup(context.Background(), signupRequest())
		require.NoError(t, err)

		_, err = handler.Signup(context.Background(), signupRequest())
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials return a session", func(t *testing.T) {
		mem := store.NewMemory()
		handler, tokens := newAccountHandler(mem)

		_, err := handler.Signup(context.Background(), signupRequest())
		require.NoError(t, err)

		req := &handlers.LoginRequest{}
		req.Body.Email = "test@example.com"
		req.Body.Password = "correct horse battery"

		resp, err := handler.Login(context.Background(), req)
		require.NoError(t, err)

		_, err = tokens.Verify(resp.Body.Token)
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email respond identically", func(t *testing.T) {
		mem := store.NewMemory()
		handler, _ := newAccountHandler(mem)

		_, err := handler.Signup(context.Background(), signupRequest())
		require.NoError(t, err)

		wrongPassword := &handlers.LoginRequest{}
		wrongPassword.Body.Email = "test@example.com"
		wrongPassword.Body.Password = "nope"

		_, errPassword := handler.Login(context.Background(), wrongPassword)

		unknownEmail := &handlers.LoginRequest{}
		unknownEmail.Body.Email = "other@example.com"
		unknownEmail.Body.Password = "correct horse battery"

		_, errEmail := handler.Login(context.Background(), unknownEmail)

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, errPassword))
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, errEmail))
		assert.Equal(t, errPassword.Error(), errEmail.Error())
	})
}
