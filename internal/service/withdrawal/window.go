package withdrawal

import (
	"time"
)

// The withdrawal window covers the trailing windowDays calendar days
// of each month, inclusive of the last day.

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// windowStart returns the first open day of the month containing t.
func windowStart(t time.Time, windowDays int) int {
	return lastDayOfMonth(t) - (windowDays - 1)
}

// isWindowOpen reports whether t falls inside the monthly window.
func isWindowOpen(t time.Time, windowDays int) bool {
	return t.Day() >= windowStart(t, windowDays)
}

// daysUntilWindow returns how many days remain until the window opens.
// Inside the window it looks ahead to next month's opening.
func daysUntilWindow(t time.Time, windowDays int) int {
	start := windowStart(t, windowDays)
	if t.Day() < start {
		return start - t.Day()
	}
	nextMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return lastDayOfMonth(t) - t.Day() + windowStart(nextMonth, windowDays)
}
