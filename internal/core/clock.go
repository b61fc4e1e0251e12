package core

import (
	"fmt"
	"time"
)

// DefaultUTCOffsetHours is the fixed offset used for month boundaries unless
// configured otherwise (Brasília, no DST).
const DefaultUTCOffsetHours = -3

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T. Used by tests and by replaying exports.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// TimePolicy is the single timezone rule applied to every month-boundary and
// relative-window computation.
type TimePolicy struct {
	Location *time.Location
}

// NewTimePolicy builds a policy with a fixed UTC offset in whole hours.
func NewTimePolicy(offsetHours int) TimePolicy {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	if offsetHours == 0 {
		name = "UTC"
	}
	return TimePolicy{Location: time.FixedZone(name, offsetHours*3600)}
}

// DefaultTimePolicy returns the UTC-3 policy.
func DefaultTimePolicy() TimePolicy {
	return NewTimePolicy(DefaultUTCOffsetHours)
}

func (p TimePolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Local converts t to the policy location.
func (p TimePolicy) Local(t time.Time) time.Time {
	return t.In(p.location())
}

// Today returns the calendar date of t in the policy location.
func (p TimePolicy) Today(t time.Time) Date {
	return DateOf(p.Local(t))
}

// CurrentMonth returns the year and month of t in the policy location.
func (p TimePolicy) CurrentMonth(t time.Time) (int, time.Month) {
	local := p.Local(t)
	return local.Year(), local.Month()
}
