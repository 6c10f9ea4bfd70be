package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateProject(t *testing.T, store *SQLiteStore, code, name string) {
	t.Helper()
	if err := store.CreateProject(context.Background(), &models.Project{Code: code, Name: name}); err != nil {
		t.Fatalf("CreateProject(%q) failed: %v", code, err)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID", func(t *testing.T) {
		user := &models.User{Username: "alice", PasswordHash: "hash1"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "hash2"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if user.PasswordHash != "hash1" {
			t.Errorf("Expected original hash, got %q", user.PasswordHash)
		}

		if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CountUsers", func(t *testing.T) {
		count, err := store.CountUsers(ctx)
		if err != nil {
			t.Fatalf("CountUsers failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 user, got %d", count)
		}
	})

	t.Run("UpdateUserPassword", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}

		if err := store.UpdateUserPassword(ctx, user.ID, "newhash"); err != nil {
			t.Fatalf("UpdateUserPassword failed: %v", err)
		}

		updated, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if updated.PasswordHash != "newhash" {
			t.Errorf("Expected updated hash, got %q", updated.PasswordHash)
		}

		if err := store.UpdateUserPassword(ctx, "missing-id", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestProjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		mustCreateProject(t, store, "T1", "Trip")

		project, err := store.GetProject(ctx, "T1")
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if project.Name != "Trip" {
			t.Errorf("Expected name 'Trip', got %q", project.Name)
		}
	})

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		err := store.CreateProject(ctx, &models.Project{Code: "T1", Name: "Other"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("get unknown project", func(t *testing.T) {
		if _, err := store.GetProject(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete unknown project", func(t *testing.T) {
		if err := store.DeleteProject(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateProject(t, store, "T1", "Trip")

	user := &models.User{Username: "alice", PasswordHash: "h"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	other := &models.User{Username: "bob", PasswordHash: "h"}
	if err := store.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("CreateMember pre-linked", func(t *testing.T) {
		member := &models.Member{ProjectCode: "T1", Name: "alice", LinkedUserID: user.ID}
		if err := store.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		if member.ID == "" {
			t.Error("Expected member ID to be generated")
		}
	})

	t.Run("duplicate name in project is a conflict", func(t *testing.T) {
		err := store.CreateMember(ctx, &models.Member{ProjectCode: "T1", Name: "alice"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("same name in another project is fine", func(t *testing.T) {
		mustCreateProject(t, store, "T2", "Other trip")
		if err := store.CreateMember(ctx, &models.Member{ProjectCode: "T2", Name: "alice"}); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	})

	t.Run("member in unknown project", func(t *testing.T) {
		err := store.CreateMember(ctx, &models.Member{ProjectCode: "missing", Name: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("EnsureMembers is idempotent and preserves links", func(t *testing.T) {
		if err := store.EnsureMembers(ctx, "T1", []string{"alice", "bob", "carol"}); err != nil {
			t.Fatalf("EnsureMembers failed: %v", err)
		}
		if err := store.EnsureMembers(ctx, "T1", []string{"bob", "carol"}); err != nil {
			t.Fatalf("EnsureMembers (second) failed: %v", err)
		}

		members, err := store.ListMembers(ctx, "T1")
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("Expected 3 members, got %d", len(members))
		}

		// The pre-existing linked member is untouched.
		alice, err := store.GetMember(ctx, "T1", "alice")
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if alice.LinkedUserID != user.ID {
			t.Errorf("Expected alice to stay linked to %q, got %q", user.ID, alice.LinkedUserID)
		}
	})

	t.Run("LinkMember claims an unlinked member", func(t *testing.T) {
		if err := store.LinkMember(ctx, "T1", "bob", other.ID); err != nil {
			t.Fatalf("LinkMember failed: %v", err)
		}
		bob, err := store.GetMember(ctx, "T1", "bob")
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if bob.LinkedUserID != other.ID {
			t.Errorf("Expected bob linked to %q, got %q", other.ID, bob.LinkedUserID)
		}
	})

	t.Run("LinkMember is idempotent for the same user", func(t *testing.T) {
		if err := store.LinkMember(ctx, "T1", "bob", other.ID); err != nil {
			t.Fatalf("LinkMember (repeat) failed: %v", err)
		}
	})

	t.Run("LinkMember rejects a second claimant", func(t *testing.T) {
		err := store.LinkMember(ctx, "T1", "bob", user.ID)
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
		bob, _ := store.GetMember(ctx, "T1", "bob")
		if bob.LinkedUserID != other.ID {
			t.Errorf("Link must remain %q, got %q", other.ID, bob.LinkedUserID)
		}
	})

	t.Run("LinkMember on a missing member", func(t *testing.T) {
		err := store.LinkMember(ctx, "T1", "nobody", user.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ProjectCodesForUser deduplicates", func(t *testing.T) {
		codes, err := store.ProjectCodesForUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ProjectCodesForUser failed: %v", err)
		}
		if len(codes) != 1 || codes[0] != "T1" {
			t.Errorf("Expected [T1], got %v", codes)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateProject(t, store, "T1", "Trip")

	expense := &models.Expense{
		ID:          "e1",
		ProjectCode: "T1",
		Type:        models.TypeExpense,
		Title:       "Dinner",
		Amount:      30,
		Payer:       "alice",
		Involved:    []string{"alice", "bob"},
		Date:        "2026-08-01",
	}

	t.Run("insert materializes members", func(t *testing.T) {
		if err := store.UpsertExpense(ctx, expense, []string{"alice", "bob"}); err != nil {
			t.Fatalf("UpsertExpense failed: %v", err)
		}

		members, err := store.ListMembers(ctx, "T1")
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(members))
		}

		expenses, err := store.ListExpenses(ctx, "T1")
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}
		got := expenses[0]
		if got.Title != "Dinner" || got.Amount != 30 || len(got.Involved) != 2 {
			t.Errorf("Round-trip mismatch: %+v", got)
		}
	})

	t.Run("re-submitting the identical record is idempotent", func(t *testing.T) {
		if err := store.UpsertExpense(ctx, expense, []string{"alice", "bob"}); err != nil {
			t.Fatalf("UpsertExpense (repeat) failed: %v", err)
		}

		expenses, _ := store.ListExpenses(ctx, "T1")
		if len(expenses) != 1 {
			t.Errorf("Expected 1 expense after repeat, got %d", len(expenses))
		}
		members, _ := store.ListMembers(ctx, "T1")
		if len(members) != 2 {
			t.Errorf("Expected 2 members after repeat, got %d", len(members))
		}
	})

	t.Run("update replaces the full record", func(t *testing.T) {
		updated := &models.Expense{
			ID:          "e1",
			ProjectCode: "T1",
			Type:        models.TypeSettlement,
			Amount:      15,
			Payer:       "bob",
			Receiver:    "alice",
			Involved:    []string{},
			Date:        "2026-08-02",
		}
		if err := store.UpsertExpense(ctx, updated, []string{"bob", "alice"}); err != nil {
			t.Fatalf("UpsertExpense (update) failed: %v", err)
		}

		expenses, _ := store.ListExpenses(ctx, "T1")
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}
		got := expenses[0]
		if got.Type != models.TypeSettlement || got.Amount != 15 || got.Receiver != "alice" {
			t.Errorf("Full replace mismatch: %+v", got)
		}
		if got.Title != "" {
			t.Errorf("Title should be cleared on replace, got %q", got.Title)
		}
	})

	t.Run("id collision moves the row to the new project", func(t *testing.T) {
		mustCreateProject(t, store, "T2", "Other")
		moved := &models.Expense{
			ID:          "e1",
			ProjectCode: "T2",
			Type:        models.TypeExpense,
			Amount:      10,
			Payer:       "carol",
			Involved:    []string{"carol"},
			Date:        "2026-08-03",
		}
		if err := store.UpsertExpense(ctx, moved, []string{"carol"}); err != nil {
			t.Fatalf("UpsertExpense (move) failed: %v", err)
		}

		t1, _ := store.ListExpenses(ctx, "T1")
		t2, _ := store.ListExpenses(ctx, "T2")
		if len(t1) != 0 || len(t2) != 1 {
			t.Errorf("Expected row in T2 only, got T1=%d T2=%d", len(t1), len(t2))
		}

		// Membership materialized in the new project.
		if _, err := store.GetMember(ctx, "T2", "carol"); err != nil {
			t.Errorf("Expected carol in T2: %v", err)
		}
	})

	t.Run("expense for unknown project", func(t *testing.T) {
		bad := &models.Expense{
			ID:          "e2",
			ProjectCode: "missing",
			Type:        models.TypeExpense,
			Amount:      1,
			Payer:       "x",
			Involved:    []string{},
			Date:        "2026-08-01",
		}
		err := store.UpsertExpense(ctx, bad, []string{"x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteProjectCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateProject(t, store, "T1", "Trip")

	expense := &models.Expense{
		ID:          "e1",
		ProjectCode: "T1",
		Type:        models.TypeExpense,
		Amount:      30,
		Payer:       "alice",
		Involved:    []string{"alice", "bob"},
		Date:        "2026-08-01",
	}
	if err := store.UpsertExpense(ctx, expense, []string{"alice", "bob"}); err != nil {
		t.Fatalf("UpsertExpense failed: %v", err)
	}

	if err := store.DeleteProject(ctx, "T1"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := store.GetProject(ctx, "T1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected project gone, got %v", err)
	}

	members, err := store.ListMembers(ctx, "T1")
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected no orphaned members, got %d", len(members))
	}

	expenses, err := store.ListExpenses(ctx, "T1")
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected no orphaned expenses, got %d", len(expenses))
	}
}

func TestListProjectStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateProject(t, store, "T1", "Trip")
	mustCreateProject(t, store, "T2", "Empty")

	expense := &models.Expense{
		ID:          "e1",
		ProjectCode: "T1",
		Type:        models.TypeExpense,
		Amount:      30,
		Payer:       "alice",
		Involved:    []string{"alice", "bob"},
		Date:        "2026-08-01",
	}
	if err := store.UpsertExpense(ctx, expense, []string{"alice", "bob"}); err != nil {
		t.Fatalf("UpsertExpense failed: %v", err)
	}

	stats, err := store.ListProjectStats(ctx)
	if err != nil {
		t.Fatalf("ListProjectStats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(stats))
	}

	byCode := make(map[string]int)
	for i, st := range stats {
		byCode[st.Code] = i
	}
	t1 := stats[byCode["T1"]]
	if t1.MemberCount != 2 || t1.ExpenseCount != 1 {
		t.Errorf("T1 counts: got members=%d expenses=%d", t1.MemberCount, t1.ExpenseCount)
	}
	t2 := stats[byCode["T2"]]
	if t2.MemberCount != 0 || t2.ExpenseCount != 0 {
		t.Errorf("T2 counts: got members=%d expenses=%d", t2.MemberCount, t2.ExpenseCount)
	}
}
