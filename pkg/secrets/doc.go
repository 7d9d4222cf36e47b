// Package secrets provides versioned at-rest encryption for MFA secrets.
//
// Two ciphertext formats are supported on read, and only the current one is
// ever written:
//
//   - Current ("v2$" prefix): salt(16) || iv(16) || tag(16) || ciphertext,
//     hex-encoded after the prefix. The key is derived per record with
//     scrypt(baseKey, salt) and the payload sealed with AES-256-GCM. A fresh
//     salt and IV are drawn for every encryption call.
//   - Legacy (no prefix): iv(16) || tag(16) || ciphertext, hex-encoded. The
//     key is scrypt(sessionSigningSecret, "mfa-salt") — a fixed salt and a
//     signing secret reused across purposes. Supported strictly for reading
//     records written before the migration.
//
// Decrypt dispatches on the prefix, so callers never need to know which
// format a stored value uses. Both paths authenticate via the GCM tag and
// fail hard on tamper or wrong key.
//
// # Key Resolution
//
// The cipher prefers a dedicated key from MFA_ENCRYPTION_KEY. When it is
// absent it falls back to the session-signing secret and logs a warning once
// per process. In production the missing dedicated key is a constructor
// error: New returns ErrEncryptionKeyRequired before the cipher can be used.
// Key resolution is a private implementation detail of the Cipher; it is
// never exposed through the API.
//
// # Usage
//
//	cfg, _ := secrets.LoadConfig()
//	cipher, err := secrets.New(cfg)
//	if err != nil {
//	    // fatal: misconfigured key material
//	}
//
//	ct, _ := cipher.Encrypt("JBSWY3DPEHPK3PXP")
//	pt, _ := cipher.Decrypt(ct)
//
// # Error Handling
//
// All public functions wrap package sentinels with errors.Join. Match with
// errors.Is against ErrDecryptionFailed, ErrInvalidCiphertext, and the
// configuration sentinels.
package secrets
