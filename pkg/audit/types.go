package audit

import (
	"fmt"
	"time"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Security actions recorded by the auth subsystem.
const (
	ActionMFAEnabled      = "mfa.enabled"
	ActionMFADisabled     = "mfa.disabled"
	ActionMFAVerify       = "mfa.verify"
	ActionMFABackupCode   = "mfa.backup_code"
	ActionMFACodesRenewed = "mfa.codes_regenerated"
	ActionAccountLocked   = "account.locked"
	ActionAccountUnlocked = "account.unlocked"
	ActionLoginAttempt    = "login.attempt"
)

// Event represents a single security audit entry.
type Event struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Action    string         `json:"action"`
	Result    Result         `json:"result"`
	IP        string         `json:"ip,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithUserID attaches the acting user's id to the event.
func WithUserID(userID string) EventOption {
	return func(e *Event) {
		e.UserID = userID
	}
}

// WithEmail attaches the (normalized) account email to the event.
func WithEmail(email string) EventOption {
	return func(e *Event) {
		e.Email = email
	}
}

// WithIP attaches the request origin address to the event.
func WithIP(ip string) EventOption {
	return func(e *Event) {
		e.IP = ip
	}
}

// WithMetadata merges additional structured detail into the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
