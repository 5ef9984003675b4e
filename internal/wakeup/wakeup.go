// Package wakeup computes the next RTC wake instant from a pair of
// configured daily wall-clock times.
//
// Each run evaluates two candidate timestamps (today combined with each
// configured time-of-day) and picks whichever lies closest to now by
// absolute distance. The rollover to tomorrow is governed by an explicit
// RolloverPolicy because the two sensible behaviors differ observably:
// shifting only when both candidates have elapsed can select an instant
// that is already in the past.
package wakeup

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock hour:minute value in the 24-hour range.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of 24-hour range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// String returns the zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On combines the time-of-day with the date of day, in day's location.
// Seconds and fractional seconds are zeroed.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// SameHour reports whether now falls within the hour of t.
// Used to detect a boot that happened outside any scheduled wake hour.
func (t TimeOfDay) SameHour(now time.Time) bool {
	return now.Hour() == t.Hour
}

// RolloverPolicy controls when an elapsed candidate is shifted to tomorrow.
type RolloverPolicy int

const (
	// RollWhenBothElapsed shifts both candidates to tomorrow only once both
	// have elapsed today. If exactly one has elapsed it stays on today's
	// date and may still win the distance comparison despite being in the
	// past. This mirrors the original scheduler.
	RollWhenBothElapsed RolloverPolicy = iota

	// RollEachElapsed shifts each candidate to tomorrow independently as
	// soon as it elapses, so the chosen instant is never in the past.
	RollEachElapsed
)

// ParseRolloverPolicy maps the config strings "both" and "each" to a policy.
func ParseRolloverPolicy(s string) (RolloverPolicy, error) {
	switch s {
	case "both":
		return RollWhenBothElapsed, nil
	case "each":
		return RollEachElapsed, nil
	}
	return 0, fmt.Errorf("invalid rollover policy %q (want \"both\" or \"each\")", s)
}

// String returns the config form of the policy.
func (p RolloverPolicy) String() string {
	if p == RollEachElapsed {
		return "each"
	}
	return "both"
}

// Candidates returns the two concrete wake instants for now's day, with the
// policy's rollover applied. The returned instants correspond positionally
// to first and second.
func Candidates(now time.Time, first, second TimeOfDay, policy RolloverPolicy) (time.Time, time.Time) {
	c1 := first.On(now)
	c2 := second.On(now)
	switch policy {
	case RollEachElapsed:
		if now.After(c1) {
			c1 = c1.AddDate(0, 0, 1)
		}
		if now.After(c2) {
			c2 = c2.AddDate(0, 0, 1)
		}
	default:
		if now.After(c1) && now.After(c2) {
			c1 = c1.AddDate(0, 0, 1)
			c2 = c2.AddDate(0, 0, 1)
		}
	}
	return c1, c2
}

// Next returns the candidate closest to now by absolute distance.
// The comparison is strict, so an exact tie resolves to the second time.
func Next(now time.Time, first, second TimeOfDay, policy RolloverPolicy) time.Time {
	c1, c2 := Candidates(now, first, second, policy)
	if absDiff(now, c1) < absDiff(now, c2) {
		return c1
	}
	return c2
}

func absDiff(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
