// Package service implements the core operations of Splitpot: identity,
// project registry, membership reconciliation and ledger sync.
package service

import "errors"

// ErrInvalidInput indicates a request missing a required field or
// carrying an unknown enum value. Terminal for the request.
var ErrInvalidInput = errors.New("invalid request")
