package reconcile

import (
	"fmt"
	"time"
)

const naiveLayout = "2006-01-02T15:04:05"

// ParseDeviceTime converts a device-reported timestamp to a UTC instant.
//
// Terminals are inconsistent: some firmwares append a UTC offset
// ("2025-12-06T10:30:00+05:00"), others send bare wall-clock time
// ("2025-12-06T10:30:00"). An offset-bearing string is converted directly;
// a naive string is interpreted as wall-clock time in loc and then
// converted. Naive input must never be treated as UTC; that would shift
// every span by the zone offset.
func ParseDeviceTime(s string, loc *time.Location) (time.Time, error) {
	if len(s) < len(naiveLayout) {
		return time.Time{}, fmt.Errorf("device timestamp too short: %q", s)
	}

	if hasOffset(s) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse device timestamp %q: %w", s, err)
		}
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(naiveLayout, s[:len(naiveLayout)], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse device timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// hasOffset reports whether the string carries zone information after the
// time-of-day part. The date portion contains dashes, so only the suffix
// counts.
func hasOffset(s string) bool {
	rest := s[len(naiveLayout):]
	for _, r := range rest {
		if r == '+' || r == '-' || r == 'Z' {
			return true
		}
	}
	return false
}
