// Package audit records security events emitted by the auth subsystem:
// MFA lifecycle changes, verification attempts, and account lockouts.
//
// Events flow through a Logger into a pluggable Storage. Successful and
// failed outcomes are both recorded; an MFA verification that fails is an
// expected authentication outcome, and the trail must show it.
//
// # Usage
//
//	storage := audit.NewMemoryStorage()
//	log := audit.NewLogger(storage)
//
//	_ = log.Log(ctx, audit.ActionMFAEnabled, audit.WithUserID(userID))
//	_ = log.LogFailure(ctx, audit.ActionMFAVerify,
//	    audit.WithUserID(userID),
//	    audit.WithMetadata("method", "totp"),
//	)
//
// MemoryStorage serves tests and development; SlogStorage ships events
// through the structured-log pipeline for deployments without a dedicated
// audit table.
package audit
