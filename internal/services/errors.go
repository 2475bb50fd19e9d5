package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes with errors.Is, so services must wrap them rather than
// return bare fmt errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation indicates the request is malformed or violates a
	// business rule that depends only on the request and current state.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the operation is valid in general but not
	// against the record's current lifecycle state.
	ErrConflict = errors.New("operation conflicts with current state")

	// ErrInvariantViolation indicates a ledger consistency check failed
	// after a mutation. The surrounding transaction must roll back.
	ErrInvariantViolation = errors.New("ledger invariant violation")
)
