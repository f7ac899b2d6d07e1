// Package clock abstracts wall-clock time so tests can inject fixed instants.
package clock

import "time"

// ISO is the calendar-date layout used everywhere in the planner.
const ISO = "2006-01-02"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// Now implements Clock.
func (f Fixed) Now() time.Time { return f.T }

// DayIndex returns the calendar day-of-week index, 0=Sunday..6=Saturday.
func DayIndex(t time.Time) int {
	return int(t.Weekday())
}

// Date formats t as an ISO calendar date.
func Date(t time.Time) string {
	return t.Format(ISO)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(ISO, s)
}
