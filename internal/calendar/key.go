package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	keyLayout      = "2006-01-02" // canonical
	providerLayout = "02-01-2006" // Al Adhan gregorian.date
)

// Key is the canonical identity of a calendar date, always "YYYY-MM-DD".
// Both sides of every date comparison are normalized to a Key first.
type Key string

// KeyOf returns the key for t's calendar date in t's own location.
func KeyOf(t time.Time) Key {
	return Key(t.Format(keyLayout))
}

// ParseKey normalizes a date in either ISO or provider encoding.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{keyLayout, providerLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return KeyOf(t), nil
		}
	}
	return "", fmt.Errorf("unrecognised date %q: want YYYY-MM-DD or DD-MM-YYYY", s)
}

// Date returns midnight of the key's date in loc.
func (k Key) Date(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(keyLayout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid key %q: %w", k, err)
	}
	return t, nil
}

func (k Key) String() string { return string(k) }
