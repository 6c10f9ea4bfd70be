package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/storage"
)

// CreateMember inserts a new member row, optionally pre-linked to a user.
// The UNIQUE(project_code, name) constraint adjudicates concurrent
// creations of the same name; the loser gets ErrConflict.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO project_members (id, project_code, name, linked_user_id) VALUES (?, ?, ?, ?)",
		member.ID, member.ProjectCode, member.Name, nullString(member.LinkedUserID),
	)
	if kind := constraintErr(err); kind != nil {
		return fmt.Errorf("member %q in project %q: %w", member.Name, member.ProjectCode, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return nil
}

// GetMember retrieves a member by project code and name.
func (s *SQLiteStore) GetMember(ctx context.Context, projectCode, name string) (*models.Member, error) {
	member := &models.Member{}
	var linked sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, project_code, name, linked_user_id FROM project_members WHERE project_code = ? AND name = ?",
		projectCode, name,
	).Scan(&member.ID, &member.ProjectCode, &member.Name, &linked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %q in project %q: %w", name, projectCode, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if linked.Valid {
		member.LinkedUserID = linked.String
	}
	return member, nil
}

// ListMembers returns all members of a project ordered by name.
func (s *SQLiteStore) ListMembers(ctx context.Context, projectCode string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, project_code, name, linked_user_id FROM project_members WHERE project_code = ? ORDER BY name",
		projectCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		var linked sql.NullString
		if err := rows.Scan(&member.ID, &member.ProjectCode, &member.Name, &linked); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if linked.Valid {
			member.LinkedUserID = linked.String
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// LinkMember claims the named member for the given user. The read and
// the write happen in one transaction so a concurrent claim cannot
// slip between them.
func (s *SQLiteStore) LinkMember(ctx context.Context, projectCode, name, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	var linked sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT id, linked_user_id FROM project_members WHERE project_code = ? AND name = ?",
		projectCode, name,
	).Scan(&id, &linked)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("member %q in project %q: %w", name, projectCode, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}

	if linked.Valid && linked.String != userID {
		return fmt.Errorf("member %q in project %q is linked to another user: %w", name, projectCode, storage.ErrConflict)
	}
	if linked.Valid {
		// Already linked to this user; nothing to write.
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE project_members SET linked_user_id = ? WHERE id = ?",
		userID, id,
	); err != nil {
		if kind := constraintErr(err); kind != nil {
			return fmt.Errorf("user %q: %w", userID, kind)
		}
		return fmt.Errorf("failed to link member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// EnsureMembers creates an unlinked member for every name not already
// present in the project, all in one transaction.
func (s *SQLiteStore) EnsureMembers(ctx context.Context, projectCode string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureMembersTx(ctx, tx, projectCode, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ensureMembersTx inserts missing members within an existing transaction.
// ON CONFLICT DO NOTHING keeps it idempotent and never overwrites an
// existing, possibly linked, member.
func ensureMembersTx(ctx context.Context, tx *sql.Tx, projectCode string, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO project_members (id, project_code, name)
			 VALUES (?, ?, ?)
			 ON CONFLICT (project_code, name) DO NOTHING`,
			uuid.New().String(), projectCode, name,
		)
		if kind := constraintErr(err); kind != nil {
			return fmt.Errorf("project %q: %w", projectCode, kind)
		}
		if err != nil {
			return fmt.Errorf("failed to ensure member %q: %w", name, err)
		}
	}
	return nil
}
