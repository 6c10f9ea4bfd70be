package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rgault/splitpot/internal/auth"
	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// adminUsername always receives admin rights, regardless of
// registration order.
const adminUsername = "admin"

// IdentityService implements user registration, authentication and
// password reset.
type IdentityService struct {
	store storage.Store
}

// NewIdentityService creates a new identity service with the given storage backend.
func NewIdentityService(store storage.Store) *IdentityService {
	return &IdentityService{store: store}
}

// Register creates a new user account. The first account ever
// registered, and any account named "admin", is granted admin rights.
func (s *IdentityService) Register(ctx context.Context, username, password string) (*models.User, error) {
	slog.Info("Register request received", "username", username)

	if username == "" {
		return nil, fmt.Errorf("username required: %w", ErrInvalidInput)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      count == 0 || username == adminUsername,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Warn("Register failed", "username", username, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", username, "is_admin", user.IsAdmin)
	return user, nil
}

// Authenticate verifies the credentials and returns the user together
// with the deduplicated set of project codes reachable through the
// user's linked memberships.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, []string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Unknown username and wrong password are indistinguishable
			// to the caller.
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		slog.Warn("Authentication failed", "username", username)
		return nil, nil, err
	}

	codes, err := s.store.ProjectCodesForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("User authenticated", "user_id", user.ID, "username", username, "projects", len(codes))
	return user, codes, nil
}

// ResetPassword replaces the stored hash unconditionally; no
// verification of the old password is required. Admin-only by
// convention of the caller.
func (s *IdentityService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	slog.Info("ResetPassword request received", "user_id", userID)

	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		slog.Warn("ResetPassword failed", "user_id", userID, "error", err)
		return err
	}

	slog.Info("Password updated", "user_id", userID)
	return nil
}
