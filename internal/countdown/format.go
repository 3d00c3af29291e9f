package countdown

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Output modes.
const (
	FormatClock = "clock" // 05:48:12
	FormatShort = "short" // 5h 48m
	FormatFull  = "full"  // Day 1 · Iftar 18:03 (05:48:12)
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Phase     string // e.g. "Fasting"
	Label     string // e.g. "Iftar"
	Target    string // boundary clock time in the chosen layout
	Remaining string // "5h 48m"
	Clock     string // "05:48:12"
	Fasting   bool
	Day       int // Ramadan day index
}

// FormatOutput renders a state in the given mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a Go template over FormatData.
// Example: "{{.Label}} in {{.Clock}}" -> "Iftar in 05:48:12"
func FormatOutput(s State, mode, timeFormat string) string {
	target := s.Target.Format(timeFormat)
	clock := FormatClockDuration(s.Remaining)

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Phase:     s.Phase.String(),
			Label:     s.Phase.Label(),
			Target:    target,
			Remaining: FormatRemaining(s.Remaining),
			Clock:     clock,
			Fasting:   s.Fasting(),
			Day:       s.Today.Index,
		})
	}

	switch mode {
	case FormatShort:
		return FormatRemaining(s.Remaining)
	case FormatFull:
		return fmt.Sprintf("Day %d · %s %s (%s)", s.Today.Index, s.Phase.Label(), target, clock)
	default:
		return clock
	}
}

// FormatClockDuration formats d as HH:MM:SS, clamping negatives to zero.
func FormatClockDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
