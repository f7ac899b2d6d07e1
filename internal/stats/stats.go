// Package stats contains derived statistics and reporting.
package stats

import (
	"math"
	"strconv"

	"github.com/avoronov/studa/internal/ledger"
	"github.com/avoronov/studa/internal/model"
)

// DefaultDailyGoal is the fallback goal in hours per day, used when the
// stored goal is unset or not positive.
const DefaultDailyGoal = 2.0

// DayLabels are the weekday names in calendar-index order.
var DayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CompletedThisWeek counts completed tasks dated inside the current week.
// Tasks without a date always count as current.
func CompletedThisWeek(tasks []model.Task, led *ledger.Ledger) int {
	count := 0
	for _, t := range tasks {
		if t.Completed && led.InCurrentWeek(t.Date) {
			count++
		}
	}
	return count
}

// AverageDailyHours is the mean of the 7 buckets, rounded to two decimals.
func AverageDailyHours(week [7]float64) float64 {
	total := 0.0
	for _, v := range week {
		total += v
	}
	return math.Round(total/7*100) / 100
}

// GoalProgressPercent is today's hours against the daily goal, clamped to
// [0,100]. A non-positive goal falls back to the default so the ratio is
// always defined.
func GoalProgressPercent(week [7]float64, todayIndex int, dailyGoal float64) float64 {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	percent := week[todayIndex] / dailyGoal * 100
	return math.Min(percent, 100)
}

// Streak counts consecutive nonzero days walking backward from today
// within the 7-slot bucket. It cannot see hours from a week that already
// rolled over, so a streak spanning a rollover undercounts.
func Streak(week [7]float64, todayIndex int) int {
	count := 0
	for i := 0; i < 7; i++ {
		idx := (todayIndex - i + 7) % 7
		if week[idx] <= 0 {
			break
		}
		count++
	}
	return count
}

// GoalText renders the "today vs goal" line shown next to the progress bar.
func GoalText(week [7]float64, todayIndex int, dailyGoal float64) string {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	return FormatHours(week[todayIndex]) + " / " + FormatHours(dailyGoal) + " hrs today"
}

// FormatHours prints an hour value as stored: trailing zeros trimmed,
// at most two decimals.
func FormatHours(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
