// Package lockout enforces temporary account lockout after repeated failed
// login attempts, keyed by normalized email.
//
// The policy sits in front of credential verification: the login flow calls
// Check before attempting authentication and RecordAttempt after. Once the
// configured maximum of consecutive failures is reached, the account locks
// for a fixed duration; a single success before the threshold resets the
// count to zero.
//
// # Failure Mode
//
// Check fails OPEN on storage errors: it gates login availability, not a
// sensitive mutation, so a degraded store must not lock every user out.
// RecordAttempt and Unlock surface their storage errors normally.
//
// # Usage
//
//	policy := lockout.NewPolicy(lockout.NewPostgresStore(pool),
//	    audit.NewLogger(storage), lockout.Config{})
//
//	status := policy.Check(ctx, email)
//	if status.Locked {
//	    return fmt.Errorf("account locked, try again in %s",
//	        lockout.Message(*status.UnlockAt))
//	}
//	// ... verify credentials ...
//	_ = policy.RecordAttempt(ctx, email, clientIP, authenticated)
//
// Lockout rows expire naturally when their unlock time passes; they are
// checked on read, never actively swept. Unlock is the administrative
// override that deletes the row unconditionally.
package lockout
