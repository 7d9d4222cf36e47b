package totp

import "errors"

var (
	ErrFailedToGenerateSecretKey  = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateTOTP       = errors.New("failed to generate TOTP")
	ErrMissingSecret              = errors.New("missing secret")
	ErrInvalidSecret              = errors.New("invalid secret")
	ErrMissingAccountName         = errors.New("missing account name")
	ErrMissingIssuer              = errors.New("missing issuer")
	ErrInvalidOTP                 = errors.New("invalid OTP format")
	ErrInvalidBackupCodeCount     = errors.New("invalid backup code count, must be greater than 0")
	ErrFailedToGenerateBackupCode = errors.New("failed to generate backup code")
)
