package domain

import "time"

// Clock is the account's notion of "now"
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local time zone
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Used for deterministic interest accrual.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.Time
}
