package mfa_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/secrets"
	"github.com/dmitrymomot/mfakit/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*mfa.Service, *mfa.MemoryStore, *audit.MemoryStorage) {
	t.Helper()

	cipher, err := secrets.New(secrets.Config{
		EncryptionKey: "test-mfa-encryption-key",
		SessionSecret: "test-session-secret",
	})
	require.NoError(t, err)

	store := mfa.NewMemoryStore()
	auditStorage := audit.NewMemoryStorage()

	svc := mfa.NewService(store, cipher, audit.NewLogger(auditStorage), mfa.Config{
		Issuer:          "mfakit-test",
		BackupCodeCount: 10,
		QRCodeSize:      256,
	})
	return svc, store, auditStorage
}

func enrollUser(t *testing.T, svc *mfa.Service, userID, email string) *mfa.SetupResult {
	t.Helper()
	ctx := context.Background()

	setup, err := svc.InitiateSetup(ctx, userID, email)
	require.NoError(t, err)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	ok, err := svc.VerifySetup(ctx, userID, code)
	require.NoError(t, err)
	require.True(t, ok)

	return setup
}

func TestInitiateSetup(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	setup, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)

	assert.Regexp(t, totp.ValidateSecretKeyRegex, setup.Secret)
	assert.Contains(t, setup.URI, "otpauth://totp/")
	assert.Contains(t, setup.URI, "alice@example.com")
	assert.Contains(t, setup.URI, "issuer=mfakit-test")
	assert.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))
	assert.Len(t, setup.BackupCodes, 10)

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, record.Enabled)
	assert.Nil(t, record.VerifiedAt)
	assert.NotEqual(t, setup.Secret, record.Secret, "secret must be stored encrypted")
	assert.True(t, strings.HasPrefix(record.Secret, "v2$"))
	assert.Len(t, record.BackupCodeHashes, 10)
	for i, code := range setup.BackupCodes {
		assert.Equal(t, totp.HashBackupCode(code), record.BackupCodeHashes[i])
	}
}

func TestInitiateSetupMissingUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.InitiateSetup(context.Background(), "", "alice@example.com")
	assert.ErrorIs(t, err, mfa.ErrMissingUserID)
}

func TestVerifySetup(t *testing.T) {
	t.Parallel()
	svc, store, auditStorage := newTestService(t)
	ctx := context.Background()

	setup, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)

	// Wrong code leaves the state unchanged.
	ok, err := svc.VerifySetup(ctx, "user-1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, record.Enabled)

	// Correct code flips to enabled and stamps verified_at.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	ok, err = svc.VerifySetup(ctx, "user-1", code)
	require.NoError(t, err)
	assert.True(t, ok)

	record, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, record.Enabled)
	require.NotNil(t, record.VerifiedAt)
	assert.WithinDuration(t, time.Now(), *record.VerifiedAt, time.Minute)

	events := auditStorage.ByAction(audit.ActionMFAEnabled)
	require.Len(t, events, 1)
	assert.Equal(t, "user-1", events[0].UserID)
}

func TestVerifySetupBadFormat(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)

	tests := []string{"12345", "1234567", "abcdef", "", "12 456"}
	for _, code := range tests {
		ok, err := svc.VerifySetup(ctx, "user-1", code)
		assert.False(t, ok)
		assert.ErrorIs(t, err, mfa.ErrInvalidCodeFormat)
	}
}

func TestInitiateSetupTwiceInvalidatesFirstSecret(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)
	second, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first.Secret, second.Secret)

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, record.Enabled, "enabled stays false after both setups")

	// Only the second secret is verifiable.
	firstCode, err := totp.GenerateCode(first.Secret, time.Now())
	require.NoError(t, err)
	ok, err := svc.VerifySetup(ctx, "user-1", firstCode)
	require.NoError(t, err)
	assert.False(t, ok)

	secondCode, err := totp.GenerateCode(second.Secret, time.Now())
	require.NoError(t, err)
	ok, err = svc.VerifySetup(ctx, "user-1", secondCode)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyCode(t *testing.T) {
	t.Parallel()
	svc, _, auditStorage := newTestService(t)
	ctx := context.Background()

	setup := enrollUser(t, svc, "user-1", "alice@example.com")

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	ok, err := svc.VerifyCode(ctx, "user-1", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyCode(ctx, "user-1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// Both attempts are on the audit trail.
	events := auditStorage.ByAction(audit.ActionMFAVerify)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ResultSuccess, events[0].Result)
	assert.Equal(t, audit.ResultFailure, events[1].Result)
}

func TestVerifyCodeRequiresEnabled(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// No record at all.
	ok, err := svc.VerifyCode(ctx, "ghost", "123456")
	assert.False(t, ok)
	assert.ErrorIs(t, err, mfa.ErrNotEnabled)

	// Pending setup is not enough.
	_, err = svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)

	ok, err = svc.VerifyCode(ctx, "user-1", "123456")
	assert.False(t, ok)
	assert.ErrorIs(t, err, mfa.ErrNotEnabled)
}

func TestVerifyBackupCodeConsumesExactlyOnce(t *testing.T) {
	t.Parallel()
	svc, store, auditStorage := newTestService(t)
	ctx := context.Background()

	setup := enrollUser(t, svc, "user-1", "alice@example.com")
	code := setup.BackupCodes[3]

	before, err := store.Get(ctx, "user-1")
	require.NoError(t, err)

	ok, err := svc.VerifyBackupCode(ctx, "user-1", code)
	require.NoError(t, err)
	assert.True(t, ok, "first use succeeds")

	after, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, after.BackupCodeHashes, len(before.BackupCodeHashes)-1)
	assert.NotContains(t, after.BackupCodeHashes, totp.HashBackupCode(code))

	ok, err = svc.VerifyBackupCode(ctx, "user-1", code)
	require.NoError(t, err)
	assert.False(t, ok, "second use of the same code fails")

	events := auditStorage.ByAction(audit.ActionMFABackupCode)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ResultSuccess, events[0].Result)
	assert.EqualValues(t, 9, events[0].Metadata["remaining_codes"])
	assert.Equal(t, audit.ResultFailure, events[1].Result)
}

func TestVerifyBackupCodeNormalizesInput(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	setup := enrollUser(t, svc, "user-1", "alice@example.com")
	code := setup.BackupCodes[0]

	sloppy := strings.ToLower(code[:4]) + " - " + code[4:]
	ok, err := svc.VerifyBackupCode(ctx, "user-1", sloppy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyBackupCodeRequiresEnabled(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitiateSetup(ctx, "user-1", "alice@example.com")
	require.NoError(t, err)

	ok, err := svc.VerifyBackupCode(ctx, "user-1", "ABCD2345")
	assert.False(t, ok)
	assert.ErrorIs(t, err, mfa.ErrNotEnabled)
}

func TestRegenerateBackupCodes(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	setup := enrollUser(t, svc, "user-1", "alice@example.com")

	fresh, err := svc.RegenerateBackupCodes(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, fresh, 10)
	assert.NotEqual(t, setup.BackupCodes, fresh)

	// Old batch is fully invalidated.
	ok, err := svc.VerifyBackupCode(ctx, "user-1", setup.BackupCodes[0])
	require.NoError(t, err)
	assert.False(t, ok)

	// New batch works.
	ok, err = svc.VerifyBackupCode(ctx, "user-1", fresh[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegenerateBackupCodesRequiresEnabled(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	codes, err := svc.RegenerateBackupCodes(context.Background(), "ghost")
	assert.Nil(t, codes)
	assert.ErrorIs(t, err, mfa.ErrNotEnabled)
}

func TestDisable(t *testing.T) {
	t.Parallel()
	svc, store, auditStorage := newTestService(t)
	ctx := context.Background()

	enrollUser(t, svc, "user-1", "alice@example.com")

	require.NoError(t, svc.Disable(ctx, "user-1"))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, mfa.ErrNotFound, "disable hard-deletes the record")

	enabled, err := svc.IsEnabled(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, enabled)

	events := auditStorage.ByAction(audit.ActionMFADisabled)
	require.Len(t, events, 1)
}

func TestIsEnabledAndStatus(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	enabled, err := svc.IsEnabled(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, enabled)

	status, err := svc.GetStatus(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, mfa.Status{UserID: "nobody", Enabled: false}, status)

	enrollUser(t, svc, "user-1", "alice@example.com")

	status, err = svc.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, status.Enabled)
}
