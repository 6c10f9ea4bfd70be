package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Uniqueness the application depends on lives here, not in application
// code: usernames, project codes and expense ids are unique globally,
// member names are unique per project. Concurrent writers racing on the
// same name or id are adjudicated by these constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS project_members (
    id TEXT PRIMARY KEY,
    project_code TEXT NOT NULL,
    name TEXT NOT NULL,
    linked_user_id TEXT,
    UNIQUE (project_code, name),
    FOREIGN KEY (project_code) REFERENCES projects(code) ON DELETE CASCADE,
    FOREIGN KEY (linked_user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    project_code TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT,
    amount REAL NOT NULL,
    payer TEXT NOT NULL,
    beneficiary TEXT,
    receiver TEXT,
    involved TEXT NOT NULL,
    is_bought INTEGER NOT NULL DEFAULT 0,
    date TEXT NOT NULL,
    FOREIGN KEY (project_code) REFERENCES projects(code) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_project_members_project_code ON project_members(project_code);
CREATE INDEX IF NOT EXISTS idx_project_members_linked_user_id ON project_members(linked_user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_project_code ON expenses(project_code);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
