package mfa

import (
	"context"
	"time"
)

// Record is the persisted MFA state for one user. The secret is stored as a
// format-tagged ciphertext (see pkg/secrets) and is never held or logged in
// plaintext. Backup code hashes are ordered; consumed codes are removed from
// the list, not flagged.
type Record struct {
	UserID           string
	Secret           string // ciphertext of the Base32 TOTP seed
	BackupCodeHashes []string
	Enabled          bool
	VerifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SetupResult is returned by InitiateSetup for one-time display. The secret
// and backup codes appear in plaintext here and nowhere else.
type SetupResult struct {
	Secret      string   `json:"secret"`
	URI         string   `json:"uri"`
	QRCode      string   `json:"qrCodeUrl"` // base64 PNG data URI
	BackupCodes []string `json:"backupCodes"`
}

// Status is the MFA state exposed to the login flow and the status endpoint.
type Status struct {
	UserID  string `json:"userId"`
	Enabled bool   `json:"enabled"`
}

// Store persists MFA records. Implementations must make ConsumeBackupCode
// conditional on the hash still being present, so two concurrent
// verifications of different codes cannot resurrect an already-consumed one
// through a lost update.
type Store interface {
	// Get returns the record for the user, or ErrNotFound.
	Get(ctx context.Context, userID string) (Record, error)

	// Upsert creates or wholesale-replaces the user's record.
	Upsert(ctx context.Context, record Record) error

	// Enable flips the record to enabled and stamps the verification time.
	// Returns ErrNotFound when no record exists.
	Enable(ctx context.Context, userID string, verifiedAt time.Time) error

	// ConsumeBackupCode atomically removes exactly one stored hash if it is
	// still present, returning the count of remaining codes. Returns
	// ErrBackupCodeConsumed when the hash was already gone.
	ConsumeBackupCode(ctx context.Context, userID, hash string) (remaining int, err error)

	// ReplaceBackupCodes swaps the stored hash list wholesale.
	ReplaceBackupCodes(ctx context.Context, userID string, hashes []string) error

	// Delete removes the record entirely. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, userID string) error
}
