package lockout_test

import (
	"testing"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/lockout"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		unlockAt time.Time
		want     string
	}{
		{name: "past timestamp", unlockAt: now.Add(-time.Minute), want: "now unlocked"},
		{name: "exactly now", unlockAt: now.Add(-time.Millisecond), want: "now unlocked"},
		{name: "under a minute", unlockAt: now.Add(30 * time.Second), want: "less than a minute"},
		{name: "fifteen minutes", unlockAt: now.Add(15 * time.Minute), want: "15 minutes"},
		{name: "fifty nine minutes", unlockAt: now.Add(59 * time.Minute), want: "59 minutes"},
		{name: "one hour", unlockAt: now.Add(time.Hour), want: "1 hour"},
		{name: "two hours", unlockAt: now.Add(2 * time.Hour), want: "2 hours"},
		{name: "rounded up hours", unlockAt: now.Add(90 * time.Minute), want: "2 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, lockout.Message(tt.unlockAt))
		})
	}
}
