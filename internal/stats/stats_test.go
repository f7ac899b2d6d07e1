package stats

import (
	"strings"
	"testing"

	"github.com/avoronov/studa/internal/ledger"
	"github.com/avoronov/studa/internal/model"
)

func TestMidweekSessionAggregates(t *testing.T) {
	// One 1.5h session logged on Wednesday.
	week := [7]float64{0, 0, 0, 1.5, 0, 0, 0}

	if got := AverageDailyHours(week); got != 0.21 {
		t.Fatalf("average = %v, want 0.21", got)
	}
	if got := GoalProgressPercent(week, 3, 2.0); got != 75.0 {
		t.Fatalf("goal percent = %v, want 75", got)
	}
	if got := Streak(week, 3); got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}
}

func TestGoalProgressClampsAt100(t *testing.T) {
	week := [7]float64{0, 0, 0, 5, 0, 0, 0}
	if got := GoalProgressPercent(week, 3, 2.0); got != 100 {
		t.Fatalf("goal percent = %v, want 100", got)
	}
}

func TestGoalProgressFallsBackOnBadGoal(t *testing.T) {
	week := [7]float64{1, 0, 0, 0, 0, 0, 0}
	// Non-positive goals use the 2.0 default instead of dividing by zero.
	if got := GoalProgressPercent(week, 0, 0); got != 50 {
		t.Fatalf("goal percent = %v, want 50", got)
	}
	if got := GoalProgressPercent(week, 0, -3); got != 50 {
		t.Fatalf("goal percent = %v, want 50", got)
	}
}

func TestStreakWalksBackwardFromToday(t *testing.T) {
	week := [7]float64{1, 1, 0, 1, 1, 1, 1}
	// Saturday back through Wednesday, stopped by Tuesday's zero.
	if got := Streak(week, 6); got != 4 {
		t.Fatalf("streak = %d, want 4", got)
	}
}

func TestStreakCapsAtSevenDays(t *testing.T) {
	week := [7]float64{1, 1, 1, 1, 1, 1, 1}
	if got := Streak(week, 2); got != 7 {
		t.Fatalf("streak = %d, want 7", got)
	}
}

func TestStreakZeroToday(t *testing.T) {
	week := [7]float64{1, 1, 0, 1, 1, 1, 1}
	if got := Streak(week, 2); got != 0 {
		t.Fatalf("streak = %d, want 0", got)
	}
}

func TestCompletedThisWeek(t *testing.T) {
	led := ledger.New("2025-03-03", [7]float64{})
	tasks := []model.Task{
		{Name: "in", Completed: true, Date: "2025-03-04"},
		{Name: "undated", Completed: true},
		{Name: "old", Completed: true, Date: "2025-02-20"},
		{Name: "pending", Completed: false, Date: "2025-03-04"},
	}
	if got := CompletedThisWeek(tasks, led); got != 2 {
		t.Fatalf("completed = %d, want 2", got)
	}
}

func TestGoalText(t *testing.T) {
	week := [7]float64{0, 0, 0, 1.5, 0, 0, 0}
	if got := GoalText(week, 3, 2.0); got != "1.5 / 2 hrs today" {
		t.Fatalf("goal text = %q", got)
	}
}

func TestFormatHoursTrimsTrailingZeros(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{0.52, "0.52"},
		{2.0, "2"},
	}
	for _, c := range cases {
		if got := FormatHours(c.in); got != c.want {
			t.Fatalf("FormatHours(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteCSVShape(t *testing.T) {
	week := [7]float64{0, 0, 0, 1.5, 0, 0.52, 0}
	var b strings.Builder
	if err := WriteCSV(&b, week); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	if lines[0] != "Day,Hours" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Sun,0" || lines[4] != "Wed,1.5" || lines[6] != "Fri,0.52" {
		t.Fatalf("unexpected rows: %v", lines)
	}
}

func TestBuildSummary(t *testing.T) {
	led := ledger.New("2025-03-03", [7]float64{0, 0, 0, 1.5, 0, 0, 0})
	tasks := []model.Task{{Name: "done", Completed: true, Date: "2025-03-04"}}

	s := BuildSummary(tasks, led, 3, 0)
	if s.CompletedThisWeek != 1 {
		t.Fatalf("completed = %d", s.CompletedThisWeek)
	}
	if s.DailyGoal != DefaultDailyGoal {
		t.Fatalf("goal = %v, want default", s.DailyGoal)
	}
	if s.GoalPercent != 75 {
		t.Fatalf("goal percent = %v", s.GoalPercent)
	}
	if s.TodayHours != 1.5 {
		t.Fatalf("today hours = %v", s.TodayHours)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	lines := FormatTable(
		[]string{"Day", "Hours"},
		[][]string{{"Sun", "0"}, {"Wed", "1.5"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != "Day  Hours" {
		t.Fatalf("header row = %q", lines[0])
	}
	if lines[2] != "Wed    1.5" {
		t.Fatalf("data row = %q", lines[2])
	}
}

func TestRenderWeekBarsMarksToday(t *testing.T) {
	week := [7]float64{0, 2, 0, 0, 0, 0, 0}
	var b strings.Builder
	if err := RenderWeekBars(&b, week, 1, 10); err != nil {
		t.Fatalf("RenderWeekBars: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7", len(lines))
	}
	if !strings.HasPrefix(lines[1], "> Mon") {
		t.Fatalf("today row not marked: %q", lines[1])
	}
	if !strings.Contains(lines[1], "█") {
		t.Fatalf("nonzero day has no bar: %q", lines[1])
	}
	if strings.Contains(lines[0], "█") {
		t.Fatalf("zero day has a bar: %q", lines[0])
	}
}
