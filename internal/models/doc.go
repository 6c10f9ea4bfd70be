// Package models defines the core domain records for Splitpot.
//
// # Models
//
//   - User: a registered account (username + password hash, admin flag)
//   - Project: an expense-sharing group, identified by a unique code
//   - Member: a named participant within one project's ledger,
//     optionally linked to a User
//   - Expense: a ledger entry ("expense" or "settlement"), keyed by a
//     client-supplied id used for offline sync
//
// # Design Principles
//
// 1. **Names are the ledger identity**: expenses reference participants by
// free-text name, not by user id. Linking a Member to a User is a separate,
// explicit step, so ledgers work before (or without) anyone registering.
//
// 2. **Avoid circular references**: relationships are expressed through
// code/id strings, never through pointers between models.
//
// 3. **Client-owned expense ids**: the client supplies the Expense.ID and
// the server treats it as an idempotency key, so offline clients can
// re-submit entries safely.
package models
