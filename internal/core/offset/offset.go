// Package offset contains the pure policy logic for computing the corrected
// timestamp of a message. The carrier stamps inbound messages with its own
// clock, which may be hours off from local time; the policy decides what the
// timestamp should have been.
package offset

import (
	"fmt"
	"time"
)

// Mode selects how the corrected timestamp is derived.
type Mode string

const (
	// ModeAutomatic adds the negative of the local timezone offset to the
	// stored timestamp.
	ModeAutomatic Mode = "automatic"
	// ModePhone ignores the stored timestamp and uses the local clock.
	ModePhone Mode = "phone"
	// ModeManual adds a user-specified number of hours to the stored
	// timestamp.
	ModeManual Mode = "manual"
)

// GraceWindowMillis is how far ahead of the local clock a stored timestamp
// must be before alternate-network mode still applies the offset. Within the
// window the stored time is trusted as-is.
const GraceWindowMillis = 5000

const millisPerHour = 3600000

// Policy is the user-configured adjustment policy.
type Policy struct {
	Mode        Mode
	ManualHours int
	// AlternateNetwork suppresses the offset for networks that already
	// deliver local-clock timestamps (the CDMA fix), unless the stored time
	// is ahead of the local clock by more than the grace window.
	AlternateNetwork bool
}

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAutomatic, ModePhone, ModeManual:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid configuration: unknown offset mode %q", s)
}

// Amount returns the adjustment in milliseconds for automatic and manual
// modes. Automatic mode derives it from the local timezone of now, so DST
// transitions are picked up on the next message.
func Amount(p Policy, now time.Time) int64 {
	if p.Mode == ModeAutomatic {
		_, seconds := now.Zone()
		return -int64(seconds) * 1000
	}
	return int64(p.ManualHours) * millisPerHour
}

// Target computes the corrected millisecond timestamp for a message whose
// store-assigned timestamp is stored.
func Target(p Policy, stored int64, now time.Time) int64 {
	if p.Mode == ModePhone {
		return now.UnixMilli()
	}
	if p.AlternateNetwork && stored-now.UnixMilli() <= GraceWindowMillis {
		return stored
	}
	return stored + Amount(p, now)
}
