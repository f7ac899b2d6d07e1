package stats

import (
	"fmt"
	"io"
)

// WriteCSV emits the weekly buckets as "Day,Hours" rows, Sun..Sat, with
// values formatted as stored.
func WriteCSV(w io.Writer, week [7]float64) error {
	if _, err := fmt.Fprintln(w, "Day,Hours"); err != nil {
		return err
	}
	for i, label := range DayLabels {
		if _, err := fmt.Fprintf(w, "%s,%s\n", label, FormatHours(week[i])); err != nil {
			return err
		}
	}
	return nil
}
