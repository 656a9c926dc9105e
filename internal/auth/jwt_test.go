package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		mgr := auth.NewTokenManager("test-secret", time.Hour)
		userID := uuid.New()

		token, err := mgr.Issue(userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := mgr.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		mgr := auth.NewTokenManager("test-secret", time.Hour)

		_, err := mgr.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		token, err := auth.NewTokenManager("other-secret", time.Hour).Issue(uuid.New())
		require.NoError(t, err)

		_, err = auth.NewTokenManager("test-secret", time.Hour).Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		mgr := auth.NewTokenManager("test-secret", -time.Minute)

		token, err := mgr.Issue(uuid.New())
		require.NoError(t, err)

		_, err = mgr.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, auth.CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, auth.CheckPassword(hash, "wrong-password"))
}

func TestUserIDContext(t *testing.T) {
	_, ok := auth.UserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	ctx := auth.ContextWithUserID(context.Background(), id)

	got, ok := auth.UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}
