package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

const (
	// DefaultBackupCodeCount is the number of codes issued per batch.
	DefaultBackupCodeCount = 10

	// BackupCodeLength is the number of characters in each code.
	BackupCodeLength = 8

	// backupCodeAlphabet excludes visually ambiguous glyphs (0/O, 1/I/L) so
	// codes survive being read from a printout or over the phone.
	backupCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// GenerateBackupCodes creates cryptographically secure single-use recovery
// codes. Each character is drawn independently via crypto/rand so no code is
// predictable from another in the same batch. Codes are returned in plaintext
// exactly once; callers must hash them before persistence.
func GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidBackupCodeCount
	}

	alphabetSize := big.NewInt(int64(len(backupCodeAlphabet)))

	codes := make([]string, count)
	for i := range count {
		var b strings.Builder
		b.Grow(BackupCodeLength)
		for range BackupCodeLength {
			idx, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return nil, errors.Join(ErrFailedToGenerateBackupCode, err)
			}
			b.WriteByte(backupCodeAlphabet[idx.Int64()])
		}
		codes[i] = b.String()
	}
	return codes, nil
}

// NormalizeBackupCode uppercases the input and strips everything outside
// A-Z0-9, so "abcd-2345" and "ABCD 2345" both match the stored "ABCD2345".
func NormalizeBackupCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HashBackupCode creates a SHA-256 hash for secure storage of backup codes.
func HashBackupCode(code string) string {
	hash := sha256.Sum256([]byte(code))
	return hex.EncodeToString(hash[:])
}

// VerifyBackupCode compares a plaintext code against a stored hash in
// constant time to prevent timing-based side channels.
func VerifyBackupCode(code, hashedCode string) bool {
	computed := HashBackupCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashedCode)) == 1
}
