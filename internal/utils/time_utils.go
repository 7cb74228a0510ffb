package utils

import (
	"time"
)

// ISOLayout matches the timestamps the backend emits (naive UTC, microseconds)
const ISOLayout = "2006-01-02T15:04:05.000000"

// Clock returns the current time; tests swap it out
type Clock func() time.Time

// UTCClock is the default clock
func UTCClock() time.Time {
	return time.Now().UTC()
}

// FormatISO renders t the way the backend does
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

