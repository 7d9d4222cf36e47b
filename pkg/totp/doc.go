// Package totp implements the pure cryptographic primitives for time-based
// one-time-password authentication: RFC 6238 code generation and validation,
// tolerant RFC 4648 Base32 encoding for secret exchange, and single-use
// backup (recovery) codes.
//
// The package is stateless by design. Persisting secrets, encrypting them at
// rest, and tracking which backup codes remain unused belongs to the mfa
// service package; everything here is a deterministic function of its inputs
// plus crypto/rand.
//
// # Usage
//
// Enrolling a user:
//
//	secret, _ := totp.GenerateSecretKey()
//	uri, _ := totp.GetTOTPURI(totp.URIParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//	// render uri as a QR code, then confirm the user's first code:
//	ok, _ := totp.ValidateCode(secret, "123456")
//
// Issuing recovery codes:
//
//	codes, _ := totp.GenerateBackupCodes(totp.DefaultBackupCodeCount)
//	for _, c := range codes {
//	    store(totp.HashBackupCode(c)) // never persist plaintext
//	}
//
// # Security Notes
//
// Code validation accepts a ±1 window (±30s) to absorb clock drift and
// compares candidates with crypto/subtle so timing does not reveal partial
// matches. Backup codes are hashed with SHA-256 before storage and verified
// in constant time.
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
