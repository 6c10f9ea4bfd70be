package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// LedgerService syncs expense and settlement entries from offline-first
// clients. The client-supplied expense id is the idempotency key:
// re-submitting a record replaces it wholesale. Every sync also
// materializes unseen participant names as unlinked members, so the
// roster stays consistent with the ledger without explicit joins.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new ledger service with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// UpsertExpense inserts or fully replaces the entry keyed by its id,
// then ensures a member exists for every participant name it
// references. Both steps commit in one transaction.
func (s *LedgerService) UpsertExpense(ctx context.Context, projectCode string, expense *models.Expense) error {
	slog.Info("UpsertExpense request received",
		"project", projectCode,
		"expense_id", expense.ID,
		"type", expense.Type,
	)

	if expense.ID == "" {
		return fmt.Errorf("expense id required: %w", ErrInvalidInput)
	}
	if expense.Payer == "" {
		return fmt.Errorf("payer required: %w", ErrInvalidInput)
	}
	if expense.Type != models.TypeExpense && expense.Type != models.TypeSettlement {
		return fmt.Errorf("unknown expense type %q: %w", expense.Type, ErrInvalidInput)
	}

	expense.ProjectCode = projectCode
	participants := expense.ParticipantNames()

	if err := s.store.UpsertExpense(ctx, expense, participants); err != nil {
		slog.Warn("UpsertExpense failed", "project", projectCode, "expense_id", expense.ID, "error", err)
		return err
	}

	slog.Info("Expense synced",
		"project", projectCode,
		"expense_id", expense.ID,
		"participants", len(participants),
	)
	return nil
}
