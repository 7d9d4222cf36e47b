package reauth

import (
	"context"
	"time"
)

// DefaultWindow is how long a successful re-authentication stays fresh.
const DefaultWindow = 5 * time.Minute

// Cache tracks which users recently re-authenticated (re-entered a password
// or MFA code) so sensitive operations can skip a second challenge within a
// short freshness window.
//
// Entries are advisory: losing them only forces an extra challenge, never
// skips one, so an in-process implementation is acceptable for single
// instances and a shared store (Redis) for multi-instance deployments.
type Cache interface {
	// Mark records that the user re-authenticated now.
	Mark(ctx context.Context, userID string) error
	// Recent reports whether the user re-authenticated within the window.
	Recent(ctx context.Context, userID string) (bool, error)
	// Forget drops the marker, forcing the next sensitive operation to
	// re-challenge.
	Forget(ctx context.Context, userID string) error
}
