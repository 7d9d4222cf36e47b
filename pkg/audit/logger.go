package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger records security events. The MFA service and lockout policy emit an
// event for every authentication-relevant outcome, success or failure.
type Logger interface {
	// Log records a successful action.
	Log(ctx context.Context, action string, opts ...EventOption) error
	// LogFailure records a failed action (a wrong code, a lockout trigger).
	// Failures are expected outcomes, not errors; they still get a full
	// audit trail.
	LogFailure(ctx context.Context, action string, opts ...EventOption) error
}

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

type logger struct {
	storage Storage
}

// NewLogger creates an audit logger over the given storage.
func NewLogger(storage Storage) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &logger{storage: storage}
}

func (l *logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, action, ResultSuccess, opts...)
}

func (l *logger) LogFailure(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, action, ResultFailure, opts...)
}

func (l *logger) store(ctx context.Context, action string, result Result, opts ...EventOption) error {
	event := Event{
		ID:        uuid.New().String(),
		Action:    action,
		Result:    result,
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Store(ctx, event)
}
