// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/rgault/splitpot/internal/models"
)

// Sentinel errors returned by Store implementations. Callers classify
// failures with errors.Is; implementations wrap these with context.
var (
	// ErrNotFound indicates the target of an operation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation: duplicate username,
	// project code or member name, or a member already claimed by
	// another user.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every multi-step mutation (project deletion cascade, expense upsert with
// member materialization, member linking) must be atomic: either all writes
// commit or none do. Uniqueness is enforced by storage constraints, so
// concurrent writers racing on the same name or id lose with ErrConflict
// rather than corrupting state.
type Store interface {
	// CreateUser persists a new user.
	// Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by username.
	// Returns ErrNotFound if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int, error)

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUserPassword replaces the stored password hash.
	// Returns ErrNotFound if the user id is unknown.
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error

	// ProjectCodesForUser returns the deduplicated set of project codes
	// reachable through members linked to the given user.
	ProjectCodesForUser(ctx context.Context, userID string) ([]string, error)

	// CreateProject persists a new project.
	// Returns ErrConflict if the code is taken.
	CreateProject(ctx context.Context, project *models.Project) error

	// GetProject retrieves a project by code.
	// Returns ErrNotFound if no such project exists.
	GetProject(ctx context.Context, code string) (*models.Project, error)

	// DeleteProject removes a project and all of its members and
	// expenses in one transaction. Returns ErrNotFound if the code is
	// unknown.
	DeleteProject(ctx context.Context, code string) error

	// ListProjectStats returns member and expense counts for every
	// project.
	ListProjectStats(ctx context.Context) ([]models.ProjectStats, error)

	// CreateMember inserts a new member row. Returns ErrConflict if the
	// (project, name) pair is taken, ErrNotFound if the project does
	// not exist.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by project code and name.
	// Returns ErrNotFound if no such member exists.
	GetMember(ctx context.Context, projectCode, name string) (*models.Member, error)

	// ListMembers returns all members of a project.
	ListMembers(ctx context.Context, projectCode string) ([]*models.Member, error)

	// LinkMember claims the named member for the given user,
	// atomically. Idempotent if the member is already linked to the
	// same user. Returns ErrNotFound if the member does not exist and
	// ErrConflict if it is linked to a different user.
	LinkMember(ctx context.Context, projectCode, name, userID string) error

	// EnsureMembers creates an unlinked member for every name not
	// already present in the project. Idempotent and order-independent;
	// existing members (linked or not) are never touched.
	EnsureMembers(ctx context.Context, projectCode string, names []string) error

	// UpsertExpense inserts the expense, or fully replaces the stored
	// record with the same id, and materializes a member for every name
	// in participants, all in one transaction. Returns ErrNotFound if
	// the target project does not exist.
	UpsertExpense(ctx context.Context, expense *models.Expense, participants []string) error

	// ListExpenses returns all expenses of a project.
	ListExpenses(ctx context.Context, projectCode string) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
