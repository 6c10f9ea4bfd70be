package models

// Project represents an expense-sharing group.
type Project struct {
	// Code is the unique identifier for the project. There is no
	// separate surrogate key; members and expenses reference the code.
	Code string

	// Name is the display name of the project.
	Name string

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64
}

// Member represents a named participant within one project's ledger.
// Members are created explicitly when a user joins a project, or
// implicitly when a ledger entry references a name not seen before.
type Member struct {
	// ID is the synthetic unique identifier for the member (UUID format).
	ID string

	// ProjectCode is the project this member belongs to.
	ProjectCode string

	// Name is the participant name. Unique within the project.
	Name string

	// LinkedUserID is the account this member is claimed by, or empty
	// if the name is unclaimed.
	LinkedUserID string
}

// ProjectStats summarizes one project for the admin overview.
type ProjectStats struct {
	Code         string
	Name         string
	MemberCount  int
	ExpenseCount int
}
