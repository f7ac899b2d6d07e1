// Package task owns the mutable study-task collection.
package task

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/studa/internal/clock"
	"github.com/avoronov/studa/internal/model"
)

// Store holds all tasks. It mutates only in memory; the planner decides
// when the collection is committed to disk.
type Store struct {
	tasks []model.Task
}

// New builds a store from persisted tasks.
func New(tasks []model.Task) *Store {
	return &Store{tasks: tasks}
}

// AddRequest carries the fields for a new task. Zero values take the
// documented defaults.
type AddRequest struct {
	Name       string
	Subject    string
	Date       string
	EstMinutes int
	Priority   string
}

// Add creates a task, applying defaults: subject "General", date = today,
// priority Normal. The name must not trim to empty.
func (s *Store) Add(req AddRequest, now time.Time) (model.Task, error) {
	t := model.Task{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Subject:    strings.TrimSpace(req.Subject),
		Date:       strings.TrimSpace(req.Date),
		EstMinutes: req.EstMinutes,
		Priority:   model.Priority(req.Priority),
	}
	if t.Subject == "" {
		t.Subject = "General"
	}
	if t.Date == "" {
		t.Date = clock.Date(now)
	}
	if t.Priority == "" {
		t.Priority = model.PriorityNormal
	}
	if err := model.ValidateTask(t); err != nil {
		return model.Task{}, err
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Find returns the task with the given id.
func (s *Store) Find(id string) (model.Task, error) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], nil
	}
	return model.Task{}, model.ErrNotFound
}

// Edit applies a partial update. Nil and empty-string fields keep the
// previous value. Auto-completion is re-evaluated only when the estimate
// changes; other edits never flip the completed flag.
func (s *Store) Edit(id string, req model.EditRequest) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, model.ErrNotFound
	}
	updated := s.tasks[i]
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subject != nil && strings.TrimSpace(*req.Subject) != "" {
		updated.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		updated.Date = strings.TrimSpace(*req.Date)
	}
	if req.Priority != nil && strings.TrimSpace(*req.Priority) != "" {
		updated.Priority = model.Priority(strings.TrimSpace(*req.Priority))
	}
	estChanged := false
	if req.EstMinutes != nil {
		updated.EstMinutes = *req.EstMinutes
		estChanged = true
	}
	if err := model.ValidateTask(updated); err != nil {
		return model.Task{}, err
	}
	if estChanged {
		enforceCompletion(&updated)
	}
	s.tasks[i] = updated
	return updated, nil
}

// ToggleComplete flips the completed flag.
func (s *Store) ToggleComplete(id string) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, model.ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], nil
}

// Delete removes a task; reports whether one was removed.
func (s *Store) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// AddTimeSpent accrues studied minutes and enforces the auto-completion
// rule: once timeSpent reaches the estimate the task completes, and never
// auto-uncompletes.
func (s *Store) AddTimeSpent(id string, minutes int) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, model.ErrNotFound
	}
	if minutes < 0 {
		minutes = 0
	}
	s.tasks[i].TimeSpentMinutes += minutes
	enforceCompletion(&s.tasks[i])
	return s.tasks[i], nil
}

// Query returns a filtered, ordered copy of the collection. Sorting is
// stable and never mutates stored order.
func (s *Store) Query(q model.Query) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if q.Subject != "" && q.Subject != "all" && t.Subject != q.Subject {
			continue
		}
		if q.Status == model.StatusPending && t.Completed {
			continue
		}
		if q.Status == model.StatusCompleted && !t.Completed {
			continue
		}
		out = append(out, t)
	}
	switch q.Sort {
	case model.SortDate:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	case model.SortPriority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() > out[j].Priority.Rank() })
	case model.SortTimeSpent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].TimeSpentMinutes > out[j].TimeSpentMinutes })
	}
	return out
}

// Tasks returns a copy of the full collection in stored order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Subjects returns the distinct subjects in first-seen order.
func (s *Store) Subjects() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range s.tasks {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Completion only moves forward: crossing the estimate sets the flag,
// nothing here ever clears it.
func enforceCompletion(t *model.Task) {
	if !t.Completed && t.TimeSpentMinutes >= t.EstMinutes {
		t.Completed = true
	}
}
