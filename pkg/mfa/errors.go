package mfa

import "errors"

var (
	// ErrNotFound is returned when no MFA record exists for the user.
	ErrNotFound = errors.New("mfa record not found")

	// ErrNotEnabled is returned by operations that require completed setup.
	ErrNotEnabled = errors.New("mfa is not enabled for this user")

	// ErrInvalidCodeFormat rejects codes that are not exactly six digits
	// before any cryptographic or storage work happens.
	ErrInvalidCodeFormat = errors.New("code must be exactly 6 digits")

	// ErrBackupCodeConsumed is returned by stores when the hash to consume
	// was already removed by a concurrent verification.
	ErrBackupCodeConsumed = errors.New("backup code already consumed")

	// ErrMissingUserID guards operations called with an empty principal.
	ErrMissingUserID = errors.New("user id is required")
)
