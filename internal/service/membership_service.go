package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// MembershipService reconciles free-text participant names with user
// accounts. A member name may exist before anyone claims it (created by
// another client's ledger entry); claiming links it to an account
// without creating a duplicate identity, and a name claimed by one
// account can never be claimed by another.
type MembershipService struct {
	store storage.Store
}

// NewMembershipService creates a new membership service with the given storage backend.
func NewMembershipService(store storage.Store) *MembershipService {
	return &MembershipService{store: store}
}

// Join adds the user to a project under the given member name.
//
// With createNew, a fresh member row is inserted pre-linked to the
// user; a taken name is a conflict. Without it, the user claims the
// existing name: unknown names are not found, names linked to a
// different user are a conflict, and re-claiming one's own name is
// idempotent.
func (s *MembershipService) Join(ctx context.Context, projectCode, memberName string, createNew bool, userID string) error {
	slog.Info("Join request received",
		"project", projectCode,
		"member", memberName,
		"create_new", createNew,
		"user_id", userID,
	)

	if memberName == "" {
		return fmt.Errorf("member name required: %w", ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("user id required: %w", ErrInvalidInput)
	}

	// Unknown projects fail before any member-level distinction.
	if _, err := s.store.GetProject(ctx, projectCode); err != nil {
		return err
	}

	if createNew {
		member := &models.Member{
			ProjectCode:  projectCode,
			Name:         memberName,
			LinkedUserID: userID,
		}
		if err := s.store.CreateMember(ctx, member); err != nil {
			slog.Warn("Join failed", "project", projectCode, "member", memberName, "error", err)
			return err
		}
		slog.Info("Member created", "project", projectCode, "member", memberName, "user_id", userID)
		return nil
	}

	if err := s.store.LinkMember(ctx, projectCode, memberName, userID); err != nil {
		slog.Warn("Join failed", "project", projectCode, "member", memberName, "error", err)
		return err
	}

	slog.Info("Member linked", "project", projectCode, "member", memberName, "user_id", userID)
	return nil
}

// EnsureMembersExist creates an unlinked member for every name not yet
// present in the project. Idempotent and order-independent; existing
// members, linked or not, are never overwritten.
func (s *MembershipService) EnsureMembersExist(ctx context.Context, projectCode string, names []string) error {
	return s.store.EnsureMembers(ctx, projectCode, names)
}
