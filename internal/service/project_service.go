package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// ProjectView is a project with its full member roster and ledger,
// unfiltered and unpaginated.
type ProjectView struct {
	Code     string
	Name     string
	Members  []*models.Member
	Expenses []*models.Expense
}

// UserStats is one user's row in the admin overview.
type UserStats struct {
	User         *models.User
	ProjectCodes []string
}

// AdminStats aggregates projects and users for the admin overview.
type AdminStats struct {
	Projects []models.ProjectStats
	Users    []UserStats
}

// ProjectService implements the project registry: creation, full reads,
// cascading deletion and the admin aggregate.
type ProjectService struct {
	store storage.Store
}

// NewProjectService creates a new project service with the given storage backend.
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

// Create registers a new project under a unique code.
func (s *ProjectService) Create(ctx context.Context, code, name string) (*models.Project, error) {
	slog.Info("CreateProject request received", "code", code, "name", name)

	if code == "" {
		return nil, fmt.Errorf("project code required: %w", ErrInvalidInput)
	}

	project := &models.Project{Code: code, Name: name}
	if err := s.store.CreateProject(ctx, project); err != nil {
		slog.Warn("CreateProject failed", "code", code, "error", err)
		return nil, err
	}

	slog.Info("Project created", "code", code)
	return project, nil
}

// Get returns the project with its full member and expense lists.
func (s *ProjectService) Get(ctx context.Context, code string) (*ProjectView, error) {
	project, err := s.store.GetProject(ctx, code)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, code)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, code)
	if err != nil {
		return nil, err
	}

	return &ProjectView{
		Code:     project.Code,
		Name:     project.Name,
		Members:  members,
		Expenses: expenses,
	}, nil
}

// Delete removes the project and everything it owns. The cascade is
// transactional; no partial deletion is observable.
func (s *ProjectService) Delete(ctx context.Context, code string) error {
	slog.Info("DeleteProject request received", "code", code)

	if err := s.store.DeleteProject(ctx, code); err != nil {
		slog.Warn("DeleteProject failed", "code", code, "error", err)
		return err
	}

	slog.Info("Project deleted", "code", code)
	return nil
}

// AdminStats returns per-project member/expense counts and per-user
// account details with reachable project codes.
func (s *ProjectService) AdminStats(ctx context.Context) (*AdminStats, error) {
	projects, err := s.store.ListProjectStats(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{Projects: projects}
	for _, user := range users {
		codes, err := s.store.ProjectCodesForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		stats.Users = append(stats.Users, UserStats{User: user, ProjectCodes: codes})
	}

	return stats, nil
}
