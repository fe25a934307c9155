package services

import (
	"context"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/mapper"
	"ads_platform_backend/middleware"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

type UserService struct {
	store store.Storage
}

func NewUserService(s store.Storage) *UserService {
	return &UserService{store: s}
}

func (s *UserService) Me(ctx context.Context, caller models.Caller) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, storeErr(err, "User not found", "Failed to fetch user")
	}
	return u, nil
}

// UpdateMe changes the caller's name and phone. Username, email and role are
// not writable here.
func (s *UserService) UpdateMe(ctx context.Context, caller models.Caller, req models.UpdateUserRequest) (*models.User, error) {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	mapper.ApplyUserUpdate(u, req)

	updated, err := s.store.UpdateUser(ctx, u)
	if err != nil {
		return nil, storeErr(err, "User not found", "Failed to update user")
	}
	return updated, nil
}

func (s *UserService) SetPassword(ctx context.Context, caller models.Caller, current, next string) error {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return err
	}
	if !middleware.VerifyPassword(u.PasswordHash, current) {
		return apperrors.Forbidden("Current password is incorrect")
	}
	if len(next) < 8 {
		return apperrors.Invalid("New password must be at least 8 characters")
	}

	hash, err := middleware.HashPassword(next)
	if err != nil {
		return apperrors.Internal("Failed to process password", err)
	}
	if err := s.store.UpdatePassword(ctx, u.ID, hash); err != nil {
		return storeErr(err, "User not found", "Failed to update password")
	}
	return nil
}
