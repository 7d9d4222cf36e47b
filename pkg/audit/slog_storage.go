package audit

import (
	"context"
	"log/slog"
)

// SlogStorage writes audit events to a structured logger. Useful when the
// audit trail is shipped through the log pipeline instead of a database.
type SlogStorage struct {
	log *slog.Logger
}

// NewSlogStorage creates a storage that emits events via slog.
func NewSlogStorage(log *slog.Logger) *SlogStorage {
	if log == nil {
		log = slog.Default()
	}
	return &SlogStorage{log: log}
}

func (s *SlogStorage) Store(ctx context.Context, event Event) error {
	attrs := []any{
		slog.String("audit_id", event.ID),
		slog.String("action", event.Action),
		slog.String("result", string(event.Result)),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", event.Email))
	}
	if event.IP != "" {
		attrs = append(attrs, slog.String("ip", event.IP))
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", event.Metadata))
	}

	s.log.InfoContext(ctx, "audit event", attrs...)
	return nil
}
