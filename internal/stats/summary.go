package stats

import (
	"fmt"
	"io"

	"github.com/avoronov/studa/internal/ledger"
	"github.com/avoronov/studa/internal/model"
)

// Summary contains precomputed aggregates for rendering.
type Summary struct {
	CompletedThisWeek int
	AvgDailyHours     float64
	Streak            int
	GoalPercent       float64
	GoalText          string
	TodayHours        float64
	DailyGoal         float64
}

// BuildSummary derives every aggregate from current task and ledger state.
func BuildSummary(tasks []model.Task, led *ledger.Ledger, todayIndex int, dailyGoal float64) Summary {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	week := led.WeekData()
	return Summary{
		CompletedThisWeek: CompletedThisWeek(tasks, led),
		AvgDailyHours:     AverageDailyHours(week),
		Streak:            Streak(week, todayIndex),
		GoalPercent:       GoalProgressPercent(week, todayIndex, dailyGoal),
		GoalText:          GoalText(week, todayIndex, dailyGoal),
		TodayHours:        week[todayIndex],
		DailyGoal:         dailyGoal,
	}
}

// RenderSummary prints the aggregate numbers as a short report.
func RenderSummary(w io.Writer, s Summary) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Completed this week: %d", s.CompletedThisWeek),
		fmt.Sprintf("Avg daily hours: %s", FormatHours(s.AvgDailyHours)),
		fmt.Sprintf("Streak: %d day(s)", s.Streak),
		fmt.Sprintf("Goal: %s (%.0f%%)", s.GoalText, s.GoalPercent),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
