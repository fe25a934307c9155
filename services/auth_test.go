package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/middleware"
	"ads_platform_backend/models"
	"ads_platform_backend/store/memory"
)

func newAuthService(t *testing.T) (*AuthService, *middleware.TokenService, *memory.Store) {
	t.Helper()
	s := memory.New()
	tokens := middleware.NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthService(s, tokens), tokens, s
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.RegisterRequest{
		Username:  "alice",
		Password:  "password123",
		FirstName: "Alice",
		Email:     "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	resp, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	req := models.RegisterRequest{Username: "alice", Password: "password123"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	svc, _, s := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureAdmin(ctx, "root", "rootpass1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "root", "other")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := s.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Login(ctx, "root", "rootpass1")
	assert.NoError(t, err)
}
