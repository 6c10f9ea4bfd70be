package models

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name. Immutable once registered.
	Username string

	// PasswordHash is the bcrypt hash of the password.
	// The plaintext password is never persisted or logged.
	PasswordHash string

	// IsAdmin marks administrator accounts. The first account ever
	// registered, and any account named "admin", is an administrator.
	IsAdmin bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
