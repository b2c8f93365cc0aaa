package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by every date field in the snapshot.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DateBefore reports a < b for two YYYY-MM-DD dates.
// Zero-padded ISO dates order lexically, so no parsing is needed.
func DateBefore(a, b string) bool {
	return a < b
}
