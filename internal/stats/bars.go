package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	defaultBarWidth     = 40
	terminalWidthBackup = 80
)

// RenderWeekBars prints a horizontal bar per weekday, Sun..Sat, scaled to
// the largest bucket. todayIndex marks today's row; pass -1 for none.
func RenderWeekBars(w io.Writer, week [7]float64, todayIndex, width int) error {
	if width < minBarWidth {
		width = defaultBarWidth
	}
	maxVal := 0.0
	for _, v := range week {
		if v > maxVal {
			maxVal = v
		}
	}
	for i, label := range DayLabels {
		bar := ""
		if maxVal > 0 {
			cells := int(math.Round(week[i] / maxVal * float64(width)))
			if cells == 0 && week[i] > 0 {
				cells = 1
			}
			bar = strings.Repeat("█", cells)
		}
		marker := " "
		if i == todayIndex {
			marker = ">"
		}
		if _, err := fmt.Fprintf(w, "%s %s %-*s %s\n", marker, label, width, bar, FormatHours(week[i])); err != nil {
			return err
		}
	}
	return nil
}

// TerminalWidth returns the stdout width, or a backup when stdout is not
// a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
