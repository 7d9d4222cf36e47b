// Package mfa implements the multi-factor-authentication service: the
// stateful orchestrator over the pure crypto in pkg/totp and the at-rest
// encryption in pkg/secrets.
//
// # State Machine
//
// A user's MFA record moves through three states:
//
//	unset -> pending (secret stored, enabled=false) -> enabled
//
// InitiateSetup creates or replaces the record in the pending state;
// VerifySetup flips it to enabled. Disable hard-deletes the record — there
// is no "disabled" state, disabling destroys all MFA material and returns
// the user to unset.
//
// # Usage
//
//	cipher, _ := secrets.New(secretsCfg)
//	svc := mfa.NewService(mfa.NewPostgresStore(pool), cipher,
//	    audit.NewLogger(storage), mfaCfg)
//
//	setup, _ := svc.InitiateSetup(ctx, userID, email)
//	// display setup.QRCode and setup.BackupCodes once
//	ok, _ := svc.VerifySetup(ctx, userID, firstCode)
//
// # Concurrency
//
// The only MFA-record operation sensitive to races is backup-code
// consumption: two concurrent logins must not both succeed with the same
// code, and consuming one code must not resurrect another through a lost
// update. Store.ConsumeBackupCode is therefore conditional — it removes the
// hash only if still present — instead of a read-modify-write of the whole
// list.
//
// # Error Handling
//
// Wrong codes are boolean outcomes paired with audit events, not errors.
// Errors are reserved for malformed input (ErrInvalidCodeFormat), calls in
// the wrong state (ErrNotEnabled), storage failures, and integrity failures
// from the cipher, which always fail closed.
package mfa
