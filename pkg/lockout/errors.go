package lockout

import "errors"

var (
	// ErrNotFound is returned when no lockout record exists for the email.
	ErrNotFound = errors.New("lockout record not found")
)
