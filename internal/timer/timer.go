// Package timer implements the study-session stopwatch state machine.
package timer

import (
	"fmt"
	"time"

	"github.com/avoronov/studa/internal/model"
)

// State is a timer lifecycle state.
type State int

// Timer states.
const (
	Idle State = iota
	Running
	Paused
)

// NoTask marks a session not attached to any task.
const NoTask = ""

// Result is what a stopped session reports back. The caller feeds it into
// the ledger and the task store; the timer itself never touches either.
type Result struct {
	Minutes int
	TaskID  string
}

// Timer tracks one in-progress study session. The effective start instant
// is kept as now minus the accumulated seconds, so pause/resume and the
// periodic tick share a single elapsed formula.
type Timer struct {
	state       State
	startAt     time.Time
	accumulated int // whole seconds
	taskID      string
}

// New returns an idle timer with nothing accumulated.
func New() *Timer {
	return &Timer{}
}

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// Elapsed returns the accumulated whole seconds as of the last tick.
func (t *Timer) Elapsed() int { return t.accumulated }

// TaskID returns the task attached to the session, or NoTask.
func (t *Timer) TaskID() string { return t.taskID }

// SelectTask attaches the session to a task id, or NoTask to detach.
func (t *Timer) SelectTask(id string) { t.taskID = id }

// Start begins or resumes counting. A running timer is left alone.
func (t *Timer) Start(now time.Time) {
	if t.state == Running {
		return
	}
	t.startAt = now.Add(-time.Duration(t.accumulated) * time.Second)
	t.state = Running
}

// Tick recomputes the elapsed seconds while running, so a concurrent
// pause always captures the latest value. Returns the display value.
func (t *Timer) Tick(now time.Time) int {
	if t.state != Running {
		return t.accumulated
	}
	elapsed := int(now.Sub(t.startAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	t.accumulated = elapsed
	return elapsed
}

// Pause freezes the accumulated seconds at the last ticked value.
// Only valid from Running; anything else is a no-op.
func (t *Timer) Pause() {
	if t.state != Running {
		return
	}
	t.state = Paused
}

// Stop ends the session from any state and resets to Idle with zero
// accumulated seconds. Sessions under one whole minute report
// model.ErrSessionTooShort and nothing gets logged; the reset happens
// either way so the timer is never left inconsistent.
func (t *Timer) Stop() (Result, error) {
	seconds := t.accumulated
	taskID := t.taskID
	t.state = Idle
	t.accumulated = 0
	t.startAt = time.Time{}

	minutes := seconds / 60
	if minutes <= 0 {
		return Result{}, model.ErrSessionTooShort
	}
	return Result{Minutes: minutes, TaskID: taskID}, nil
}

// FormatClock renders seconds as HH:MM:SS for display.
func FormatClock(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
