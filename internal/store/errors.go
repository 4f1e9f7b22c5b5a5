package store

import "errors"

// Store errors. Callers classify failures with errors.Is; retry policy is
// owned by the caller.
var (
	// ErrCredentialMissing is returned when the service account key file does
	// not exist at the configured path. Construction is all-or-nothing, so no
	// usable store is returned alongside it.
	ErrCredentialMissing = errors.New("firebase credentials not found")

	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
