// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Priority is a task priority level.
type Priority string

// Priority levels, highest first.
const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
	PriorityLow    Priority = "Low"
)

// Rank returns a sortable weight; higher means more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	default:
		return 1
	}
}

// Task is a single study task.
type Task struct {
	ID               string   `json:"id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Subject          string   `json:"subject" validate:"required"`
	Date             string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	EstMinutes       int      `json:"estMinutes" validate:"gte=0"`
	Priority         Priority `json:"priority" validate:"oneof=High Normal Low"`
	Completed        bool     `json:"completed"`
	TimeSpentMinutes int      `json:"timeSpentMinutes" validate:"gte=0"`
}

// Status filters tasks by completion.
type Status string

// Status filter values.
const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// SortKey orders query results.
type SortKey string

// Sort keys for task queries.
const (
	SortNone      SortKey = "none"
	SortDate      SortKey = "date"
	SortPriority  SortKey = "priority"
	SortTimeSpent SortKey = "timeSpent"
)

// Query selects and orders tasks. The zero value matches everything in
// stored order.
type Query struct {
	Subject string // exact subject, "" or "all" for any
	Status  Status
	Sort    SortKey
}

// EditRequest carries a partial task update. Nil or empty-string fields
// keep the previous value.
type EditRequest struct {
	Name       *string
	Subject    *string
	Date       *string
	EstMinutes *int
	Priority   *string
}

// State is the full persisted snapshot: every blob the store keeps.
type State struct {
	Tasks     []Task
	WeekData  [7]float64
	WeekStart string
	DailyGoal float64
	Notes     string
	Theme     string
}

var validate = validator.New()

// ValidateTask checks a task's field constraints.
func ValidateTask(t Task) error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	return fmt.Errorf("%w: invalid %s", ErrInvalidInput, strings.Join(fields, ", "))
}
