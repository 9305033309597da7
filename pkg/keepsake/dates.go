package keepsake

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the form field layout for the start date.
var DateFormat = "2006-01-02"

// DaysTogether returns whole days between since and now, never negative.
// A zero since counts as now.
func DaysTogether(since, now time.Time) int {
	if since.IsZero() {
		return 0
	}
	d := now.Sub(since)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// ParseDate parses a YYYY-MM-DD date at local midnight. Empty input returns the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func monthAbbrev(t time.Time) string {
	return strings.ToUpper(t.Month().String()[:3])
}

// PostmarkDate formats t as "OCT 19, '26".
func PostmarkDate(t time.Time) string {
	return fmt.Sprintf("%s %d, '%02d", monthAbbrev(t), t.Day(), t.Year()%100)
}

// StripDate formats t as "OCT 19, 2026".
func StripDate(t time.Time) string {
	return fmt.Sprintf("%s %d, %d", monthAbbrev(t), t.Day(), t.Year())
}

// SealTime formats t as "sealed at 14:05".
func SealTime(t time.Time) string {
	return fmt.Sprintf("sealed at %s", t.Format("15:04"))
}
