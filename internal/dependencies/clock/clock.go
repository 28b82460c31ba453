// Package clock abstracts wall time so session expiry and record timestamps
// can be driven by tests.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System reads the host clock, always in UTC
type System struct{}

// New returns the host clock
func New() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Expired reports whether deadline has passed according to c. A deadline
// equal to now counts as expired.
func Expired(c Clock, deadline time.Time) bool {
	return !c.Now().Before(deadline)
}
