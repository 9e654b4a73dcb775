package tenant

import "errors"

// Error kinds surfaced by the lifecycle manager. Callers classify with
// errors.Is; storage failures are returned wrapped without one of these
// kinds and are treated as fatal to the operation.
var (
	// ErrConflict indicates a uniqueness violation (name or email taken).
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates a missing organization.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller could not be resolved to an admin.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an ownership mismatch between caller and target.
	ErrForbidden = errors.New("forbidden")
)
