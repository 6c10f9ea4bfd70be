package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

func TestUpsertExpense(t *testing.T) {
	store := newTestStore(t)
	projects := NewProjectService(store)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	mustCreateProject(t, projects, "T1", "Trip")

	t.Run("materializes every referenced name", func(t *testing.T) {
		expense := &models.Expense{
			ID:          "e1",
			Type:        models.TypeExpense,
			Title:       "Groceries",
			Amount:      42.5,
			Payer:       "alice",
			Beneficiary: "dave",
			Involved:    []string{"alice", "bob", "carol"},
			Date:        "2026-08-10",
		}
		if err := ledger.UpsertExpense(ctx, "T1", expense); err != nil {
			t.Fatalf("UpsertExpense failed: %v", err)
		}

		members, err := store.ListMembers(ctx, "T1")
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 4 {
			t.Fatalf("expected 4 members (payer, involved, beneficiary), got %d", len(members))
		}
		for _, name := range []string{"alice", "bob", "carol", "dave"} {
			if _, err := store.GetMember(ctx, "T1", name); err != nil {
				t.Errorf("expected member %q: %v", name, err)
			}
		}
	})

	t.Run("idempotent re-submission", func(t *testing.T) {
		expense := &models.Expense{
			ID:       "e1",
			Type:     models.TypeExpense,
			Title:    "Groceries",
			Amount:   42.5,
			Payer:    "alice",
			Involved: []string{"alice", "bob", "carol"},
			Date:     "2026-08-10",
		}
		if err := ledger.UpsertExpense(ctx, "T1", expense); err != nil {
			t.Fatalf("UpsertExpense (repeat) failed: %v", err)
		}

		expenses, _ := store.ListExpenses(ctx, "T1")
		if len(expenses) != 1 {
			t.Errorf("expected 1 expense, got %d", len(expenses))
		}
		members, _ := store.ListMembers(ctx, "T1")
		if len(members) != 4 {
			t.Errorf("expected 4 members, got %d", len(members))
		}
	})

	t.Run("settlement references receiver", func(t *testing.T) {
		settlement := &models.Expense{
			ID:       "s1",
			Type:     models.TypeSettlement,
			Amount:   20,
			Payer:    "bob",
			Receiver: "eve",
			Involved: []string{},
			Date:     "2026-08-11",
		}
		if err := ledger.UpsertExpense(ctx, "T1", settlement); err != nil {
			t.Fatalf("UpsertExpense (settlement) failed: %v", err)
		}
		if _, err := store.GetMember(ctx, "T1", "eve"); err != nil {
			t.Errorf("expected receiver materialized: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name    string
			expense *models.Expense
		}{
			{"missing id", &models.Expense{Type: models.TypeExpense, Payer: "a", Date: "d"}},
			{"missing payer", &models.Expense{ID: "x1", Type: models.TypeExpense, Date: "d"}},
			{"unknown type", &models.Expense{ID: "x2", Type: "refund", Payer: "a", Date: "d"}},
		}
		for _, tc := range cases {
			if err := ledger.UpsertExpense(ctx, "T1", tc.expense); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
			}
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		expense := &models.Expense{
			ID:       "e9",
			Type:     models.TypeExpense,
			Amount:   1,
			Payer:    "alice",
			Involved: []string{},
			Date:     "2026-08-12",
		}
		err := ledger.UpsertExpense(ctx, "missing", expense)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
