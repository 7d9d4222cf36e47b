// Package mfaauth is the mountable HTTP surface of the MFA service.
//
// The module assumes an upstream identity layer has already authenticated
// the request and attached a Principal to the context (WithPrincipal). It
// exposes:
//
//	GET  /status        -> {userId, enabled}
//	POST /setup         -> {secret, uri, qrCodeUrl, backupCodes}; 400 if already enabled
//	POST /verify-setup  -> {success}; code must be exactly 6 digits
//	POST /verify        -> {success}; {code, isBackupCode}
//	POST /disable       -> {success}; requires a valid current code
//	POST /backup-codes  -> {backupCodes}; requires a valid current code
//
// Mount under the application router:
//
//	handler := mfaauth.NewHandler(svc, mfaauth.WithReauthCache(cache))
//	r.Mount("/mfa", handler.Handle())
package mfaauth
