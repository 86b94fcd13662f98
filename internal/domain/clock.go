package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for enrichment. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// RetrievalTimestamp returns the current time formatted for the retrieved_at
// field: RFC 3339 UTC at second precision with a "Z" suffix.
func RetrievalTimestamp() string {
	return clock.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
