package countdown

import (
	"fmt"
	"strings"
	"time"
)

// ParseClock parses "05:12" or "05:12 (+06)" into hour and minute.
func ParseClock(raw string) (hour, min int, err error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q", raw)
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("time out of range: %q", raw)
	}
	return hour, min, nil
}

// clockOn places a clock time on date in loc.
func clockOn(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	hour, min, err := ParseClock(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc), nil
}

// FormatClockTime reformats an "HH:MM" string with layout ("15:04" or
// "3:04 PM"). Unparseable input is returned unchanged.
func FormatClockTime(raw, layout string) string {
	t, err := clockOn(raw, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		return raw
	}
	return t.Format(layout)
}
