// Package calendar reconciles raw Al Adhan month calendars into the fixed
// Ramadan window.
//
// Raw entries are indexed by canonical date Key; each day of the window is
// looked up by its own Key. Days with no matching entry are skipped rather
// than padded, so Index values may have gaps.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/api"
)

// Day is one row of the Ramadan schedule.
type Day struct {
	Index            int    `json:"day"`
	Key              Key    `json:"date"`
	GregorianDisplay string `json:"gregorian"`
	HijriDisplay     string `json:"hijri"`
	Sehri            string `json:"sehri"`
	Iftar            string `json:"iftar"`
}

// Result is the outcome of reconciling raw entries.
// An empty Days slice means the calendar is unavailable.
type Result struct {
	Days []Day
	// Misses lists target dates that had no raw entry.
	Misses []Key
	// Dropped describes raw entries rejected during ingestion.
	Dropped []string
	// Err is the fetch failure that emptied the result, if any.
	Err error
}

// Unavailable reports whether there is nothing to show.
func (r Result) Unavailable() bool {
	return len(r.Days) == 0
}

// entry is a validated raw day.
type entry struct {
	key   Key
	hijri api.HijriDate
	sehri string
	iftar string
}

// Build emits one Day per date in [start, start+totalDays) that has a raw
// entry. start is interpreted as a calendar date; its clock time is ignored.
func Build(start time.Time, totalDays int, months ...[]api.Data) Result {
	index, _, dropped := ingest(months)

	res := Result{Dropped: dropped}
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < totalDays; i++ {
		target := first.AddDate(0, 0, i)
		key := KeyOf(target)

		e, ok := index[key]
		if !ok {
			res.Misses = append(res.Misses, key)
			continue
		}
		res.Days = append(res.Days, newDay(i+1, target, e))
	}
	return res
}

// BuildHijriMonth selects every raw entry in the given Hijri month (9 is
// Ramadan), ordered by Gregorian date and indexed from 1.
func BuildHijriMonth(hijriMonth int, months ...[]api.Data) Result {
	index, order, dropped := ingest(months)

	res := Result{Dropped: dropped}
	n := 0
	for _, key := range order {
		e := index[key]
		if e.hijri.Month.Number != hijriMonth {
			continue
		}
		date, err := key.Date(time.UTC)
		if err != nil {
			continue
		}
		n++
		res.Days = append(res.Days, newDay(n, date, e))
	}
	return res
}

// ingest validates raw entries and indexes them by Key. The first entry for
// a date wins. order holds the keys sorted by date.
func ingest(months [][]api.Data) (map[Key]entry, []Key, []string) {
	index := make(map[Key]entry)
	var dropped []string

	for _, month := range months {
		for _, d := range month {
			key, err := ParseKey(d.Date.Gregorian.Date)
			if err != nil {
				dropped = append(dropped, err.Error())
				continue
			}
			sehri := stripZone(d.Timings.Fajr)
			iftar := stripZone(d.Timings.Maghrib)
			if sehri == "" || iftar == "" {
				dropped = append(dropped, fmt.Sprintf("%s: missing Fajr or Maghrib", key))
				continue
			}
			if _, dup := index[key]; dup {
				dropped = append(dropped, fmt.Sprintf("%s: duplicate entry", key))
				continue
			}
			index[key] = entry{key: key, hijri: d.Date.Hijri, sehri: sehri, iftar: iftar}
		}
	}

	order := make([]Key, 0, len(index))
	for k := range index {
		order = append(order, k)
	}
	// ISO keys sort chronologically as strings.
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return index, order, dropped
}

func newDay(idx int, date time.Time, e entry) Day {
	return Day{
		Index:            idx,
		Key:              e.key,
		GregorianDisplay: date.Format("2 January"),
		HijriDisplay:     e.hijri.Format(),
		Sehri:            e.sehri,
		Iftar:            e.iftar,
	}
}

// stripZone drops the timezone annotation: "05:12 (+06)" -> "05:12".
func stripZone(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}
	return s
}
