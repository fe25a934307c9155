package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/middleware"
	"ads_platform_backend/models"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateMe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.UpdateMe(ctx, env.alice, models.UpdateUserRequest{
		LastName: strPtr("Liddell"),
		Phone:    strPtr("+100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.FirstName)
	assert.Equal(t, "Liddell", u.LastName)
	assert.Equal(t, "+100", u.Phone)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)

	me, err := env.users.Me(ctx, env.alice)
	require.NoError(t, err)
	assert.Equal(t, "Liddell", me.LastName)
}

func TestUserService_Me_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Me(context.Background(), models.Caller{UserID: 999, Username: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_SetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	hash, err := middleware.HashPassword("oldpassword")
	require.NoError(t, err)
	require.NoError(t, env.store.UpdatePassword(ctx, env.alice.UserID, hash))

	err = env.users.SetPassword(ctx, env.alice, "not-it", "newpassword")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = env.users.SetPassword(ctx, env.alice, "oldpassword", "short")
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	require.NoError(t, env.users.SetPassword(ctx, env.alice, "oldpassword", "newpassword"))

	u, err := env.store.GetUserByID(ctx, env.alice.UserID)
	require.NoError(t, err)
	assert.True(t, middleware.VerifyPassword(u.PasswordHash, "newpassword"))
	assert.False(t, middleware.VerifyPassword(u.PasswordHash, "oldpassword"))
}
