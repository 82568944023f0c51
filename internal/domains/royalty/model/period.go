package model

import (
	"fmt"
	"regexp"
	"time"
)

// Periods are calendar months in YYYY-MM form.
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CurrentPeriod returns the period for a point in time.
func CurrentPeriod(now time.Time) string {
	return now.Format("2006-01")
}

// PreviousPeriod returns the period of the calendar month before now.
// Statement runs in early month N report on month N-1.
func PreviousPeriod(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, 0, -1).Format("2006-01")
}

// ParsePeriod validates a YYYY-MM string and returns it unchanged.
func ParsePeriod(period string) (string, error) {
	if !periodPattern.MatchString(period) {
		return "", fmt.Errorf("invalid period %q, expected YYYY-MM", period)
	}
	return period, nil
}
