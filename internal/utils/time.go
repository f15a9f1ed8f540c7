package utils

import "time"

// DateOnly strips the time-of-day component. Event dates, listing snapshot
// dates and order creation dates are calendar dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
