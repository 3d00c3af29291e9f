// Package countdown derives the live Sehri/Iftar countdown from a calendar.
//
// The phase is never stored: every call re-evaluates it from the wall clock,
// today's Day and the full sequence, so the same inputs always give the same
// State.
package countdown

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
)

// Phase is the position of now relative to today's boundaries.
type Phase int

const (
	// AwaitingSehriEnd is before today's Sehri end.
	AwaitingSehriEnd Phase = iota
	// Fasting is between Sehri end and Iftar.
	Fasting
	// AwaitingNextSehri is after Iftar.
	AwaitingNextSehri
)

var phaseNames = map[Phase]string{
	AwaitingSehriEnd:  "AwaitingSehriEnd",
	Fasting:           "Fasting",
	AwaitingNextSehri: "AwaitingNextSehri",
}

var phaseLabels = map[Phase]string{
	AwaitingSehriEnd:  "Sehri ends",
	Fasting:           "Iftar",
	AwaitingNextSehri: "Next Sehri",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}

// Label is the human name of the boundary being counted down to.
func (p Phase) Label() string {
	return phaseLabels[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for ph, name := range phaseNames {
		if name == string(b) {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// State is the countdown at one instant.
type State struct {
	Phase     Phase
	Target    time.Time
	Remaining time.Duration
	Today     calendar.Day

	// TodayFallback is set when no Day matched now's date and the first
	// Day was used instead.
	TodayFallback bool
	// NextFallback is set after Iftar on the last Day, when there is no
	// next Sehri and today's is reused.
	NextFallback bool
	// Invalid is set when today's times could not be parsed; Remaining is
	// zero.
	Invalid bool
}

// Fasting reports whether now is between Sehri end and Iftar.
func (s State) Fasting() bool {
	return s.Phase == Fasting
}

// Compute evaluates the countdown for now. Boundaries are today's Sehri and
// Iftar clock times on now's calendar date in loc.
func Compute(now time.Time, today calendar.Day, days []calendar.Day, loc *time.Location) State {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	st := State{Today: today}

	sehri, err := clockOn(today.Sehri, date, loc)
	if err != nil {
		return invalid(st, AwaitingSehriEnd, now)
	}
	if now.Before(sehri) {
		return withTarget(st, AwaitingSehriEnd, sehri, now)
	}

	iftar, err := clockOn(today.Iftar, date, loc)
	if err != nil {
		return invalid(st, Fasting, now)
	}
	if now.Before(iftar) {
		return withTarget(st, Fasting, iftar, now)
	}

	next, ok := nextDay(today, days)
	if !ok {
		st.NextFallback = true
		return withTarget(st, AwaitingNextSehri, sehri, now)
	}
	nextSehri, err := clockOn(next.Sehri, date.AddDate(0, 0, 1), loc)
	if err != nil {
		return invalid(st, AwaitingNextSehri, now)
	}
	return withTarget(st, AwaitingNextSehri, nextSehri, now)
}

// SelectToday returns the Day whose key matches now's date in loc. When none
// matches, the first Day is returned with fallback set. ok is false only for
// an empty sequence.
func SelectToday(days []calendar.Day, now time.Time, loc *time.Location) (today calendar.Day, fallback, ok bool) {
	if len(days) == 0 {
		return calendar.Day{}, false, false
	}
	if loc == nil {
		loc = time.UTC
	}
	key := calendar.KeyOf(now.In(loc))
	for _, d := range days {
		if d.Key == key {
			return d, false, true
		}
	}
	return days[0], true, true
}

// Evaluate selects today and computes the state. It returns false when days
// is empty.
func Evaluate(now time.Time, days []calendar.Day, loc *time.Location) (State, bool) {
	today, fallback, ok := SelectToday(days, now, loc)
	if !ok {
		return State{}, false
	}
	st := Compute(now, today, days, loc)
	st.TodayFallback = fallback
	return st, true
}

func nextDay(today calendar.Day, days []calendar.Day) (calendar.Day, bool) {
	for i, d := range days {
		if d.Key == today.Key && i+1 < len(days) {
			return days[i+1], true
		}
	}
	return calendar.Day{}, false
}

func withTarget(st State, phase Phase, target, now time.Time) State {
	st.Phase = phase
	st.Target = target
	st.Remaining = target.Sub(now)
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	return st
}

func invalid(st State, phase Phase, now time.Time) State {
	st.Phase = phase
	st.Target = now
	st.Invalid = true
	return st
}
