package mfa

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/qrcode"
	"github.com/dmitrymomot/mfakit/pkg/secrets"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

var codeFormatRegex = regexp.MustCompile(`^\d{6}$`)

// Service coordinates the MFA record lifecycle: setup, verification,
// disable, and backup-code management. Dependencies are injected through the
// constructor so tests can substitute an in-memory store and audit sink.
type Service struct {
	store  Store
	cipher *secrets.Cipher
	audit  audit.Logger
	log    *slog.Logger
	cfg    Config
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger used for operational messages.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the MFA service. Store, cipher, and audit logger are
// required; the cipher's own constructor has already enforced the production
// key requirements by the time it reaches here.
func NewService(store Store, cipher *secrets.Cipher, auditLog audit.Logger, cfg Config, opts ...ServiceOption) *Service {
	if store == nil {
		panic("mfa: store cannot be nil")
	}
	if cipher == nil {
		panic("mfa: cipher cannot be nil")
	}
	if auditLog == nil {
		panic("mfa: audit logger cannot be nil")
	}
	if cfg.BackupCodeCount <= 0 {
		cfg.BackupCodeCount = totp.DefaultBackupCodeCount
	}

	s := &Service{
		store:  store,
		cipher: cipher,
		audit:  auditLog,
		log:    slog.Default(),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitiateSetup starts (or restarts) MFA enrollment for the user. Any prior
// record, pending or enabled, is overwritten: re-running setup always
// restarts the flow with a fresh secret. The returned plaintext secret and
// backup codes are for one-time display only.
func (s *Service) InitiateSetup(ctx context.Context, userID, email string) (*SetupResult, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	uri, err := totp.GetTOTPURI(totp.URIParams{
		Secret:      secret,
		AccountName: email,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.DataURI(uri, s.cfg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	codes, err := totp.GenerateBackupCodes(s.cfg.BackupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = totp.HashBackupCode(code)
	}

	ciphertext, err := s.cipher.Encrypt(secret)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.store.Upsert(ctx, Record{
		UserID:           userID,
		Secret:           ciphertext,
		BackupCodeHashes: hashes,
		Enabled:          false,
		VerifiedAt:       nil,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		return nil, err
	}

	return &SetupResult{
		Secret:      secret,
		URI:         uri,
		QRCode:      qr,
		BackupCodes: codes,
	}, nil
}

// VerifySetup confirms enrollment with the user's first code. On success the
// record flips to enabled and the verification time is stamped; on a wrong
// code the state is left unchanged so the caller may retry.
func (s *Service) VerifySetup(ctx context.Context, userID, code string) (bool, error) {
	if userID == "" {
		return false, ErrMissingUserID
	}
	if !codeFormatRegex.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	ok, err := s.validateAgainstRecord(record, code)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.store.Enable(ctx, userID, time.Now()); err != nil {
		return false, err
	}

	s.auditEvent(ctx, audit.ActionMFAEnabled, true, audit.WithUserID(userID))
	return true, nil
}

// VerifyCode checks a TOTP code during login. Only valid once setup is
// complete; every attempt is audited, success or failure.
func (s *Service) VerifyCode(ctx context.Context, userID, code string) (bool, error) {
	if userID == "" {
		return false, ErrMissingUserID
	}
	if !codeFormatRegex.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotEnabled
		}
		return false, err
	}
	if !record.Enabled {
		return false, ErrNotEnabled
	}

	ok, err := s.validateAgainstRecord(record, code)
	if err != nil {
		return false, err
	}

	s.auditEvent(ctx, audit.ActionMFAVerify, ok,
		audit.WithUserID(userID),
		audit.WithMetadata("method", "totp"),
	)
	return ok, nil
}

// VerifyBackupCode checks a recovery code during login and consumes it on
// success. The consume is conditional in the store, so two concurrent
// verifications can never re-admit a code that was already used.
func (s *Service) VerifyBackupCode(ctx context.Context, userID, rawCode string) (bool, error) {
	if userID == "" {
		return false, ErrMissingUserID
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotEnabled
		}
		return false, err
	}
	if !record.Enabled {
		return false, ErrNotEnabled
	}

	normalized := totp.NormalizeBackupCode(rawCode)

	// Scan the full list even after a hit so verification time does not
	// depend on the position of the matching hash.
	matched := ""
	for _, hash := range record.BackupCodeHashes {
		if totp.VerifyBackupCode(normalized, hash) {
			matched = hash
		}
	}

	if matched == "" {
		s.auditEvent(ctx, audit.ActionMFABackupCode, false, audit.WithUserID(userID))
		return false, nil
	}

	remaining, err := s.store.ConsumeBackupCode(ctx, userID, matched)
	if err != nil {
		if errors.Is(err, ErrBackupCodeConsumed) {
			// Lost the race to a concurrent request using the same code.
			s.auditEvent(ctx, audit.ActionMFABackupCode, false, audit.WithUserID(userID))
			return false, nil
		}
		return false, err
	}

	s.auditEvent(ctx, audit.ActionMFABackupCode, true,
		audit.WithUserID(userID),
		audit.WithMetadata("remaining_codes", remaining),
	)
	return true, nil
}

// Disable deletes the user's MFA record entirely, destroying the encrypted
// secret and all backup-code hashes. Callers are responsible for demanding a
// valid current code before invoking this.
func (s *Service) Disable(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}

	s.auditEvent(ctx, audit.ActionMFADisabled, true, audit.WithUserID(userID))
	return nil
}

// RegenerateBackupCodes replaces the stored batch wholesale and returns the
// new plaintext codes once. Returns ErrNotEnabled before setup completes.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotEnabled
		}
		return nil, err
	}
	if !record.Enabled {
		return nil, ErrNotEnabled
	}

	codes, err := totp.GenerateBackupCodes(s.cfg.BackupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = totp.HashBackupCode(code)
	}

	if err := s.store.ReplaceBackupCodes(ctx, userID, hashes); err != nil {
		return nil, err
	}

	s.auditEvent(ctx, audit.ActionMFACodesRenewed, true,
		audit.WithUserID(userID),
		audit.WithMetadata("code_count", len(codes)),
	)
	return codes, nil
}

// IsEnabled reports whether the user completed MFA setup. The login flow
// branches on this before issuing an MFA challenge.
func (s *Service) IsEnabled(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrMissingUserID
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Enabled, nil
}

// GetStatus returns the MFA status payload for the user.
func (s *Service) GetStatus(ctx context.Context, userID string) (Status, error) {
	enabled, err := s.IsEnabled(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	return Status{UserID: userID, Enabled: enabled}, nil
}

// validateAgainstRecord decrypts the stored secret and checks the code. A
// failed decrypt is an integrity error and surfaces hard; it is never
// reported as a mere wrong-code outcome.
func (s *Service) validateAgainstRecord(record Record, code string) (bool, error) {
	secret, err := s.cipher.Decrypt(record.Secret)
	if err != nil {
		return false, err
	}
	return totp.ValidateCode(secret, code)
}

// auditEvent records an audit entry; a failing audit sink is logged but does
// not turn a definitive authentication answer into an error.
func (s *Service) auditEvent(ctx context.Context, action string, success bool, opts ...audit.EventOption) {
	var err error
	if success {
		err = s.audit.Log(ctx, action, opts...)
	} else {
		err = s.audit.LogFailure(ctx, action, opts...)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to record audit event",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
