package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
)

// UnavailableMessage is shown instead of the schedule when loading failed.
const UnavailableMessage = "Failed to load prayer times. Please try again later."

// Schedule renders the Ramadan table with today's row highlighted.
// timeLayout is "15:04" or "3:04 PM".
func Schedule(days []calendar.Day, today calendar.Key, timeLayout string) string {
	if len(days) == 0 {
		return "  " + Red(UnavailableMessage) + "\n"
	}

	t := NewTable("Day", "Date", "Hijri", "Sehri", "Iftar")
	for i, d := range days {
		t.AddRow(
			strconv.Itoa(d.Index),
			d.GregorianDisplay,
			d.HijriDisplay,
			countdown.FormatClockTime(d.Sehri, timeLayout),
			countdown.FormatClockTime(d.Iftar, timeLayout),
		)
		if d.Key == today {
			t.Highlight(i)
		}
	}
	return t.Render()
}

// Header is the title line above the schedule.
func Header(label string, misses int) string {
	s := Bold("Ramadan Calendar · " + label)
	if misses > 0 {
		s += Dim(fmt.Sprintf(" (%d day(s) missing upstream)", misses))
	}
	return s
}

// CountdownLine is the single live line printed by the countdown command.
func CountdownLine(st countdown.State, mode, timeLayout string) string {
	var sb strings.Builder
	sb.WriteString(PhaseColor(st.Phase, countdown.FormatOutput(st, mode, timeLayout)))
	if st.TodayFallback {
		sb.WriteString(Dim(" (outside Ramadan: showing day 1)"))
	}
	if st.NextFallback {
		sb.WriteString(Dim(" (last day)"))
	}
	return sb.String()
}
