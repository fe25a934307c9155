package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/middleware"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// TokenIssuer is implemented by middleware.TokenService.
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
	TTL() time.Duration
}

type AuthService struct {
	store  store.Storage
	tokens TokenIssuer
}

func NewAuthService(s store.Storage, tokens TokenIssuer) *AuthService {
	return &AuthService{store: s, tokens: tokens}
}

// Register creates a USER account. Admins only come from EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := middleware.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to process password", err)
	}

	user, err := s.store.CreateUser(ctx, &models.User{
		Username:     strings.TrimSpace(req.Username),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         models.RoleUser,
		PasswordHash: hash,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, apperrors.Conflict("Username already taken")
	} else if err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	} else if err != nil {
		return nil, apperrors.Internal("Failed to verify credentials", err)
	}
	if !middleware.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// EnsureAdmin creates an ADMIN account if username is not taken yet. It
// reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := middleware.HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = s.store.CreateUser(ctx, &models.User{
		Username:     username,
		FirstName:    "Admin",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
