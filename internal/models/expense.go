package models

// Expense entry types.
const (
	TypeExpense    = "expense"
	TypeSettlement = "settlement"
)

// Expense represents one ledger entry: a shared cost ("expense") or a
// payment between participants ("settlement").
//
// The ID is supplied by the client and is globally unique. It is the
// sole upsert key: re-submitting an entry with a known ID fully
// replaces the stored record, which is how offline clients reconcile.
type Expense struct {
	// ID is the client-supplied, globally unique identifier.
	ID string

	// ProjectCode is the project this entry belongs to.
	ProjectCode string

	// Type is TypeExpense or TypeSettlement.
	Type string

	// Title is an optional human-readable label.
	Title string

	// Amount is the entry amount.
	Amount float64

	// Payer is the participant name who paid.
	Payer string

	// Beneficiary is an optional participant the entry is for
	// (e.g. a gift bought on someone's behalf).
	Beneficiary string

	// Receiver is the participant receiving a settlement payment,
	// empty for regular expenses.
	Receiver string

	// Involved is the set of participant names sharing the entry.
	// Order is irrelevant.
	Involved []string

	// IsBought marks planned purchases as completed.
	IsBought bool

	// Date is the client-supplied entry date, stored verbatim.
	Date string
}

// ParticipantNames returns the deduplicated set of non-empty names this
// entry references: payer, everyone involved, beneficiary and receiver.
// Every returned name must exist as a Member of the entry's project.
func (e *Expense) ParticipantNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	add(e.Payer)
	for _, name := range e.Involved {
		add(name)
	}
	add(e.Beneficiary)
	add(e.Receiver)
	return names
}
