package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rgault/splitpot/internal/models"
)

// UpsertExpense inserts the expense or fully replaces the stored record
// with the same id, then materializes a member row for every referenced
// participant name, all in one transaction. The expense id is the sole
// upsert key; on a match every column is replaced, including the
// project code.
func (s *SQLiteStore) UpsertExpense(ctx context.Context, expense *models.Expense, participants []string) error {
	involved, err := json.Marshal(expense.Involved)
	if err != nil {
		return fmt.Errorf("failed to encode involved names: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET project_code = ?, type = ?, title = ?, amount = ?, payer = ?,
		     beneficiary = ?, receiver = ?, involved = ?, is_bought = ?, date = ?
		 WHERE id = ?`,
		expense.ProjectCode, expense.Type, nullString(expense.Title), expense.Amount,
		expense.Payer, nullString(expense.Beneficiary), nullString(expense.Receiver),
		string(involved), expense.IsBought, expense.Date, expense.ID,
	)
	if err != nil {
		if kind := constraintErr(err); kind != nil {
			return fmt.Errorf("project %q: %w", expense.ProjectCode, kind)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expenses (id, project_code, type, title, amount, payer,
			                       beneficiary, receiver, involved, is_bought, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.ProjectCode, expense.Type, nullString(expense.Title),
			expense.Amount, expense.Payer, nullString(expense.Beneficiary),
			nullString(expense.Receiver), string(involved), expense.IsBought, expense.Date,
		)
		if err != nil {
			if kind := constraintErr(err); kind != nil {
				return fmt.Errorf("expense %q in project %q: %w", expense.ID, expense.ProjectCode, kind)
			}
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}

	if err := ensureMembersTx(ctx, tx, expense.ProjectCode, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpenses returns all expenses of a project.
func (s *SQLiteStore) ListExpenses(ctx context.Context, projectCode string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_code, type, title, amount, payer, beneficiary, receiver, involved, is_bought, date
		 FROM expenses WHERE project_code = ? ORDER BY date, id`,
		projectCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

func scanExpense(rows *sql.Rows) (*models.Expense, error) {
	expense := &models.Expense{}
	var title, beneficiary, receiver sql.NullString
	var involved string

	if err := rows.Scan(&expense.ID, &expense.ProjectCode, &expense.Type, &title,
		&expense.Amount, &expense.Payer, &beneficiary, &receiver, &involved,
		&expense.IsBought, &expense.Date); err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	if title.Valid {
		expense.Title = title.String
	}
	if beneficiary.Valid {
		expense.Beneficiary = beneficiary.String
	}
	if receiver.Valid {
		expense.Receiver = receiver.String
	}
	if err := json.Unmarshal([]byte(involved), &expense.Involved); err != nil {
		return nil, fmt.Errorf("failed to decode involved names: %w", err)
	}

	return expense, nil
}
