// Package ledger tracks studied hours per weekday for the current week.
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/avoronov/studa/internal/clock"
	"github.com/avoronov/studa/internal/model"
)

// Ledger is the 7-bucket hours accumulator anchored to a Monday.
// Buckets use fixed calendar indexing, 0=Sunday..6=Saturday.
type Ledger struct {
	weekStart string
	week      [7]float64
}

// New builds a ledger from persisted state. Call EnsureFresh before any
// read so a stale anchor rolls over.
func New(weekStart string, week [7]float64) *Ledger {
	return &Ledger{weekStart: weekStart, week: week}
}

// WeekStart returns the ISO date of the anchoring Monday.
func (l *Ledger) WeekStart() string { return l.weekStart }

// WeekData returns a copy of the per-day hour buckets.
func (l *Ledger) WeekData() [7]float64 { return l.week }

// CurrentMonday returns the Monday of the week containing now.
func CurrentMonday(now time.Time) time.Time {
	diff := (clock.DayIndex(now) + 6) % 7
	day := now.AddDate(0, 0, -diff)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// EnsureFresh rolls the week over if the real-world Monday has advanced
// past the stored anchor. Idempotent; reports whether anything changed.
func (l *Ledger) EnsureFresh(now time.Time) bool {
	monday := clock.Date(CurrentMonday(now))
	if l.weekStart == monday {
		return false
	}
	l.weekStart = monday
	l.week = [7]float64{}
	return true
}

// Reset zeroes the buckets and re-anchors to the current Monday,
// regardless of whether the week actually changed.
func (l *Ledger) Reset(now time.Time) {
	l.weekStart = clock.Date(CurrentMonday(now))
	l.week = [7]float64{}
}

// AddHours adds studied hours to one day bucket, rounded to two decimals
// to avoid floating drift.
func (l *Ledger) AddHours(dayIndex int, hours float64) error {
	if dayIndex < 0 || dayIndex > 6 {
		return fmt.Errorf("%w: day index %d out of range", model.ErrInvalidInput, dayIndex)
	}
	l.week[dayIndex] = round2(l.week[dayIndex] + round2(hours))
	return nil
}

// InCurrentWeek reports whether an ISO date falls inside the current
// Monday..Sunday window. Tasks without a date always count as current.
func (l *Ledger) InCurrentWeek(date string) bool {
	if date == "" {
		return true
	}
	monday, err := clock.ParseDate(l.weekStart)
	if err != nil {
		return false
	}
	end := clock.Date(monday.AddDate(0, 0, 6))
	// ISO dates compare correctly as strings.
	return date >= l.weekStart && date <= end
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
