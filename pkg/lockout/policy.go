package lockout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/audit"
)

// Status is the result of a lockout check for one email.
type Status struct {
	Locked            bool       `json:"isLocked"`
	UnlockAt          *time.Time `json:"unlockAt,omitempty"`
	FailedAttempts    int        `json:"failedAttempts"`
	RemainingAttempts int        `json:"remainingAttempts"`
}

// Policy tracks failed authentication attempts per email and enforces a
// temporary lockout once the configured maximum is reached.
type Policy struct {
	store Store
	audit audit.Logger
	log   *slog.Logger
	cfg   Config
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithLogger sets the structured logger for operational messages.
func WithLogger(log *slog.Logger) PolicyOption {
	return func(p *Policy) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPolicy creates a lockout policy over the given store and audit sink.
func NewPolicy(store Store, auditLog audit.Logger, cfg Config, opts ...PolicyOption) *Policy {
	if store == nil {
		panic("lockout: store cannot be nil")
	}
	if auditLog == nil {
		panic("lockout: audit logger cannot be nil")
	}
	cfg = cfg.withDefaults()

	p := &Policy{
		store: store,
		audit: auditLog,
		log:   slog.Default(),
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check reports the lockout status for the email. The check gates login, not
// a sensitive mutation, so on any storage error it fails OPEN: it reports
// not-locked with full remaining attempts rather than denying all logins
// while the store is down.
func (p *Policy) Check(ctx context.Context, email string) Status {
	email = NormalizeEmail(email)

	record, err := p.store.Get(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.WarnContext(ctx, "lockout check failed open",
				slog.String("email", email),
				slog.Any("error", err),
			)
		}
		return Status{RemainingAttempts: p.cfg.MaxAttempts}
	}

	now := time.Now()
	if record.Locked(now) {
		return Status{
			Locked:         true,
			UnlockAt:       record.UnlockAt,
			FailedAttempts: record.FailedAttempts,
		}
	}

	// An expired lockout has been served; the next failure starts a fresh
	// count (enforced by Store.Increment).
	if record.UnlockAt != nil {
		return Status{RemainingAttempts: p.cfg.MaxAttempts}
	}

	remaining := p.cfg.MaxAttempts - record.FailedAttempts
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		FailedAttempts:    record.FailedAttempts,
		RemainingAttempts: remaining,
	}
}

// RecordAttempt updates the failure count after a login attempt. A success
// clears the row entirely (full reset, not a decrement). A failure
// increments the count and, once the maximum is reached, arms the lockout
// and emits an "account locked" audit event.
func (p *Policy) RecordAttempt(ctx context.Context, email, ip string, success bool) error {
	email = NormalizeEmail(email)

	if success {
		return p.store.Delete(ctx, email)
	}

	count, err := p.store.Increment(ctx, email)
	if err != nil {
		return err
	}

	if count < p.cfg.MaxAttempts {
		return nil
	}

	unlockAt := time.Now().Add(p.cfg.Duration)
	if err := p.store.SetUnlockAt(ctx, email, unlockAt); err != nil {
		return err
	}

	if err := p.audit.LogFailure(ctx, audit.ActionAccountLocked,
		audit.WithEmail(email),
		audit.WithIP(ip),
		audit.WithMetadata("failed_attempts", count),
		audit.WithMetadata("unlock_at", unlockAt),
	); err != nil {
		p.log.ErrorContext(ctx, "failed to record lockout audit event",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}
	return nil
}

// Unlock is the administrative override: it unconditionally deletes the
// lockout row and audits the action.
func (p *Policy) Unlock(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	if err := p.store.Delete(ctx, email); err != nil {
		return err
	}

	if err := p.audit.Log(ctx, audit.ActionAccountUnlocked,
		audit.WithEmail(email),
	); err != nil {
		p.log.ErrorContext(ctx, "failed to record unlock audit event",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}
	return nil
}

// NormalizeEmail produces the canonical lookup key: trimmed, lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
