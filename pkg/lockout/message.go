package lockout

import (
	"fmt"
	"time"
)

// Message humanizes the remaining lockout time for user-facing error
// responses ("try again in 15 minutes").
func Message(unlockAt time.Time) string {
	return messageAt(unlockAt, time.Now())
}

func messageAt(unlockAt, now time.Time) string {
	remaining := unlockAt.Sub(now)

	if remaining <= 0 {
		return "now unlocked"
	}
	if remaining < time.Minute {
		return "less than a minute"
	}

	// Round up so the message never promises an earlier unlock than reality.
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := (minutes + 59) / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
