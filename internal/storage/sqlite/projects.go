package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// CreateProject persists a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.CreatedAt == 0 {
		project.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (code, name, created_at) VALUES (?, ?, ?)",
		project.Code, project.Name, project.CreatedAt,
	)
	if kind := constraintErr(err); kind != nil {
		return fmt.Errorf("project %q: %w", project.Code, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	return nil
}

// GetProject retrieves a project by code.
func (s *SQLiteStore) GetProject(ctx context.Context, code string) (*models.Project, error) {
	project := &models.Project{}
	err := s.db.QueryRowContext(ctx,
		"SELECT code, name, created_at FROM projects WHERE code = ?",
		code,
	).Scan(&project.Code, &project.Name, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %q: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project with all of its members and expenses.
// The cascade runs in a single transaction so no orphaned rows survive
// a partial failure.
func (s *SQLiteStore) DeleteProject(ctx context.Context, code string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE code = ?", code).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("project %q: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check project existence: %w", err)
	}

	// Members and expenses go with the project via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE code = ?", code); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListProjectStats returns member and expense counts for every project.
func (s *SQLiteStore) ListProjectStats(ctx context.Context) ([]models.ProjectStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.code, p.name,
			(SELECT COUNT(*) FROM project_members m WHERE m.project_code = p.code),
			(SELECT COUNT(*) FROM expenses e WHERE e.project_code = p.code)
		FROM projects p
		ORDER BY p.created_at, p.code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list project stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ProjectStats
	for rows.Next() {
		var st models.ProjectStats
		if err := rows.Scan(&st.Code, &st.Name, &st.MemberCount, &st.ExpenseCount); err != nil {
			return nil, fmt.Errorf("failed to scan project stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project stats: %w", err)
	}

	return stats, nil
}
