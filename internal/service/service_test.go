package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
	"github.com/rgault/splitpot/internal/storage/sqlite"
)

// newTestStore creates a throwaway SQLite store for service tests.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustRegister(t *testing.T, identity *IdentityService, username string) *models.User {
	t.Helper()
	user, err := identity.Register(context.Background(), username, "password-1")
	if err != nil {
		t.Fatalf("Register(%q) failed: %v", username, err)
	}
	return user
}

func mustCreateProject(t *testing.T, projects *ProjectService, code, name string) {
	t.Helper()
	if _, err := projects.Create(context.Background(), code, name); err != nil {
		t.Fatalf("Create(%q) failed: %v", code, err)
	}
}
