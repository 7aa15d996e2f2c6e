package domain

import "errors"

// ErrNotFound is returned when an id does not resolve to a block or
// session. Callers treat it as a recoverable no-op.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned for malformed documents or missing required
// fields. It aborts only the operation that raised it.
var ErrValidation = errors.New("validation failed")
