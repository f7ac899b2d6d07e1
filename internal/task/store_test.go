package task

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/avoronov/studa/internal/model"
)

var now = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

func TestAddAppliesDefaults(t *testing.T) {
	s := New(nil)
	got, err := s.Add(AddRequest{Name: "  Read ch.3  "}, now)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.Name != "Read ch.3" {
		t.Fatalf("name = %q", got.Name)
	}
	if got.Subject != "General" {
		t.Fatalf("subject = %q, want General", got.Subject)
	}
	if got.Date != "2025-03-05" {
		t.Fatalf("date = %q, want 2025-03-05", got.Date)
	}
	if got.Priority != model.PriorityNormal {
		t.Fatalf("priority = %q, want Normal", got.Priority)
	}
	if got.Completed || got.TimeSpentMinutes != 0 {
		t.Fatalf("new task not pristine: %+v", got)
	}
	if got.ID == "" {
		t.Fatalf("missing id")
	}
}

func TestAddRejectsBlankName(t *testing.T) {
	s := New(nil)
	_, err := s.Add(AddRequest{Name: "   "}, now)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("Add error = %v, want ErrInvalidInput", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed add mutated the store")
	}
}

func TestAddRejectsBadFields(t *testing.T) {
	s := New(nil)
	if _, err := s.Add(AddRequest{Name: "x", EstMinutes: -5}, now); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("negative estimate error = %v", err)
	}
	if _, err := s.Add(AddRequest{Name: "x", Priority: "Urgent"}, now); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("bad priority error = %v", err)
	}
	if _, err := s.Add(AddRequest{Name: "x", Date: "03/05/2025"}, now); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("bad date error = %v", err)
	}
}

func TestAddTimeSpentAutoCompletes(t *testing.T) {
	s := New(nil)
	added, err := s.Add(AddRequest{Name: "Read ch.3", Subject: "Bio", EstMinutes: 30}, now)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.AddTimeSpent(added.ID, 20)
	if err != nil {
		t.Fatalf("AddTimeSpent: %v", err)
	}
	if got.Completed {
		t.Fatalf("completed before threshold")
	}

	got, err = s.AddTimeSpent(added.ID, 11)
	if err != nil {
		t.Fatalf("AddTimeSpent: %v", err)
	}
	if got.TimeSpentMinutes != 31 || !got.Completed {
		t.Fatalf("spent=%d completed=%v, want 31/true", got.TimeSpentMinutes, got.Completed)
	}
}

func TestCompletionNeverAutoReverts(t *testing.T) {
	s := New(nil)
	added, _ := s.Add(AddRequest{Name: "drill", EstMinutes: 10}, now)
	if _, err := s.AddTimeSpent(added.ID, 15); err != nil {
		t.Fatalf("AddTimeSpent: %v", err)
	}

	// A manual un-complete survives edits that don't touch the estimate.
	got, err := s.ToggleComplete(added.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if got.Completed {
		t.Fatalf("toggle did not clear the flag")
	}
	name := "drill harder"
	got, err = s.Edit(added.ID, model.EditRequest{Name: &name})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Completed {
		t.Fatalf("name edit re-completed the task")
	}
}

func TestEditKeepsOldValuesOnBlank(t *testing.T) {
	s := New(nil)
	added, _ := s.Add(AddRequest{Name: "essay", Subject: "History", EstMinutes: 45}, now)

	blank := "   "
	newSubject := "Lit"
	got, err := s.Edit(added.ID, model.EditRequest{Name: &blank, Subject: &newSubject})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Name != "essay" {
		t.Fatalf("blank name overwrote value: %q", got.Name)
	}
	if got.Subject != "Lit" {
		t.Fatalf("subject = %q, want Lit", got.Subject)
	}
	if got.EstMinutes != 45 {
		t.Fatalf("estimate changed to %d", got.EstMinutes)
	}
}

func TestEditEstimateReEvaluatesCompletion(t *testing.T) {
	s := New(nil)
	added, _ := s.Add(AddRequest{Name: "cards", EstMinutes: 60}, now)
	if _, err := s.AddTimeSpent(added.ID, 30); err != nil {
		t.Fatalf("AddTimeSpent: %v", err)
	}

	est := 25
	got, err := s.Edit(added.ID, model.EditRequest{EstMinutes: &est})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !got.Completed {
		t.Fatalf("lowering the estimate under spent time should complete")
	}
}

func TestEditUnknownID(t *testing.T) {
	s := New(nil)
	if _, err := s.Edit("nope", model.EditRequest{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Edit error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := New(nil)
	added, _ := s.Add(AddRequest{Name: "gone"}, now)
	if !s.Delete(added.ID) {
		t.Fatalf("Delete returned false for existing task")
	}
	if s.Delete(added.ID) {
		t.Fatalf("Delete returned true for missing task")
	}
}

func seedQueryTasks(t *testing.T) *Store {
	t.Helper()
	s := New(nil)
	add := func(name, subject, date string, pri string, spent int, done bool) {
		task, err := s.Add(AddRequest{Name: name, Subject: subject, Date: date, Priority: pri, EstMinutes: 999}, now)
		if err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
		if spent > 0 {
			if _, err := s.AddTimeSpent(task.ID, spent); err != nil {
				t.Fatalf("AddTimeSpent(%s): %v", name, err)
			}
		}
		if done {
			if _, err := s.ToggleComplete(task.ID); err != nil {
				t.Fatalf("ToggleComplete(%s): %v", name, err)
			}
		}
	}
	add("a", "Bio", "2025-03-04", "Low", 10, false)
	add("b", "Math", "2025-03-01", "High", 30, true)
	add("c", "Bio", "2025-03-06", "Normal", 20, false)
	return s
}

func TestQueryFilters(t *testing.T) {
	s := seedQueryTasks(t)

	bio := s.Query(model.Query{Subject: "Bio"})
	if len(bio) != 2 {
		t.Fatalf("subject filter returned %d tasks", len(bio))
	}
	pending := s.Query(model.Query{Status: model.StatusPending})
	if len(pending) != 2 {
		t.Fatalf("pending filter returned %d tasks", len(pending))
	}
	completed := s.Query(model.Query{Subject: "all", Status: model.StatusCompleted})
	if len(completed) != 1 || completed[0].Name != "b" {
		t.Fatalf("completed filter wrong: %+v", completed)
	}
}

func TestQuerySortOrders(t *testing.T) {
	s := seedQueryTasks(t)

	names := func(tasks []model.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Name
		}
		return out
	}

	byDate := names(s.Query(model.Query{Sort: model.SortDate}))
	if !reflect.DeepEqual(byDate, []string{"b", "a", "c"}) {
		t.Fatalf("date sort = %v", byDate)
	}
	byPriority := names(s.Query(model.Query{Sort: model.SortPriority}))
	if !reflect.DeepEqual(byPriority, []string{"b", "c", "a"}) {
		t.Fatalf("priority sort = %v", byPriority)
	}
	bySpent := names(s.Query(model.Query{Sort: model.SortTimeSpent}))
	if !reflect.DeepEqual(bySpent, []string{"b", "c", "a"}) {
		t.Fatalf("timeSpent sort = %v", bySpent)
	}
}

func TestQueryIsRepeatableAndNonMutating(t *testing.T) {
	s := seedQueryTasks(t)
	q := model.Query{Subject: "all", Sort: model.SortPriority}

	first := s.Query(q)
	second := s.Query(q)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated query differs:\n%v\n%v", first, second)
	}

	stored := s.Tasks()
	if stored[0].Name != "a" || stored[2].Name != "c" {
		t.Fatalf("query mutated stored order: %v", stored)
	}
}

func TestSubjects(t *testing.T) {
	s := seedQueryTasks(t)
	got := s.Subjects()
	if !reflect.DeepEqual(got, []string{"Bio", "Math"}) {
		t.Fatalf("subjects = %v", got)
	}
}
