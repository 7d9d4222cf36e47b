package secrets

import "errors"

var (
	// Configuration errors, surfaced by New at startup
	ErrEncryptionKeyRequired = errors.New("MFA encryption key is required in production")
	ErrNoKeyMaterial         = errors.New("no key material configured: set MFA_ENCRYPTION_KEY or JWT_SECRET")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
)
