package domain

import (
	"strconv"
	"time"
)

// FormatNumber renders f with the fewest digits that parse back to the same
// float64, e.g. 1.7319999999999993 or -6.928.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatFixed renders f with exactly prec decimal places.
func FormatFixed(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// MonthName returns the full English name of a 1-based month.
func MonthName(month int) string {
	return time.Month(month).String()
}
