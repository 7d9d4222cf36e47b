package totp_test

import (
	"strings"
	"testing"

	"github.com/dmitrymomot/mfakit/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBackupCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "default batch", count: totp.DefaultBackupCodeCount, wantErr: false},
		{name: "single code", count: 1, wantErr: false},
		{name: "zero codes", count: 0, wantErr: true},
		{name: "negative count", count: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			codes, err := totp.GenerateBackupCodes(tt.count)
			if tt.wantErr {
				assert.ErrorIs(t, err, totp.ErrInvalidBackupCodeCount)
				assert.Nil(t, codes)
				return
			}

			require.NoError(t, err)
			assert.Len(t, codes, tt.count)

			seen := make(map[string]bool)
			for _, code := range codes {
				assert.Len(t, code, totp.BackupCodeLength)
				assert.False(t, seen[code], "duplicate code in batch")
				seen[code] = true

				// No visually ambiguous characters
				for _, forbidden := range "01OIL" {
					assert.NotContains(t, code, string(forbidden))
				}
			}
		})
	}
}

func TestNormalizeBackupCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already normalized", input: "ABCD2345", want: "ABCD2345"},
		{name: "lowercase", input: "abcd2345", want: "ABCD2345"},
		{name: "with dash", input: "abcd-2345", want: "ABCD2345"},
		{name: "with spaces", input: "  AB CD 23 45  ", want: "ABCD2345"},
		{name: "punctuation only", input: "--..!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, totp.NormalizeBackupCode(tt.input))
		})
	}
}

func TestHashAndVerifyBackupCode(t *testing.T) {
	t.Parallel()

	codes, err := totp.GenerateBackupCodes(3)
	require.NoError(t, err)

	for _, code := range codes {
		hash := totp.HashBackupCode(code)
		assert.Len(t, hash, 64) // SHA-256 hex
		assert.True(t, totp.VerifyBackupCode(code, hash))
		assert.False(t, totp.VerifyBackupCode(strings.Repeat("X", totp.BackupCodeLength), hash))
	}

	// Hashing is deterministic so normalized input matches stored hashes.
	hash := totp.HashBackupCode("ABCD2345")
	assert.True(t, totp.VerifyBackupCode(totp.NormalizeBackupCode("abcd-2345"), hash))
}
