package lockout

import (
	"context"
	"time"
)

// Record is the persisted lockout state for one normalized email.
type Record struct {
	Email          string
	FailedAttempts int
	UnlockAt       *time.Time // nil when not locked
}

// Locked reports whether the record carries an active lockout at the given time.
func (r Record) Locked(now time.Time) bool {
	return r.UnlockAt != nil && now.Before(*r.UnlockAt)
}

// Store persists lockout records keyed by normalized email.
type Store interface {
	// Get returns the record for the email, or ErrNotFound.
	Get(ctx context.Context, email string) (Record, error)

	// Increment bumps the failed-attempt count and returns the new value.
	// An expired lockout on the row resets the count to 1 instead: the
	// served lockout should not make the very next failure re-lock.
	Increment(ctx context.Context, email string) (int, error)

	// SetUnlockAt arms the lockout on an existing record.
	SetUnlockAt(ctx context.Context, email string, unlockAt time.Time) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, email string) error
}
