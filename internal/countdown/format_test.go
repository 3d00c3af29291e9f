package countdown

import (
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
)

func sampleState() State {
	return State{
		Phase:     Fasting,
		Target:    time.Date(2026, 2, 19, 18, 3, 0, 0, time.UTC),
		Remaining: 5*time.Hour + 48*time.Minute + 12*time.Second,
		Today:     calendar.Day{Index: 1, Key: "2026-02-19"},
	}
}

func TestFormatOutput(t *testing.T) {
	st := sampleState()

	tests := []struct {
		mode       string
		timeFormat string
		want       string
	}{
		{FormatClock, "15:04", "05:48:12"},
		{FormatShort, "15:04", "5h 48m"},
		{FormatFull, "15:04", "Day 1 · Iftar 18:03 (05:48:12)"},
		{FormatFull, "3:04 PM", "Day 1 · Iftar 6:03 PM (05:48:12)"},
		{"", "15:04", "05:48:12"},
		{"unknown", "15:04", "05:48:12"},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.timeFormat, func(t *testing.T) {
			if got := FormatOutput(st, tt.mode, tt.timeFormat); got != tt.want {
				t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_Template(t *testing.T) {
	st := sampleState()

	tests := []struct {
		tmpl string
		want string
	}{
		{"{{.Label}} in {{.Clock}}", "Iftar in 05:48:12"},
		{"{{.Phase}} day {{.Day}}", "Fasting day 1"},
		{"{{if .Fasting}}fasting{{else}}eating{{end}} {{.Remaining}}", "fasting 5h 48m"},
		{"{{.Target}}", "18:03"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			if got := FormatOutput(st, tt.tmpl, "15:04"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatOutput_TemplateErrors(t *testing.T) {
	st := sampleState()

	if got := FormatOutput(st, "{{.Label", "15:04"); !strings.HasPrefix(got, "template-err:") {
		t.Errorf("parse error output = %q", got)
	}
	if got := FormatOutput(st, "{{.Nope}}", "15:04"); !strings.HasPrefix(got, "template-err:") {
		t.Errorf("exec error output = %q", got)
	}
}

func TestFormatClockDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-5 * time.Second, "00:00:00"},
		{time.Hour + 12*time.Minute, "01:12:00"},
		{10*time.Hour + 11*time.Minute + 59*time.Second + 900*time.Millisecond, "10:11:59"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := FormatClockDuration(tt.d); got != tt.want {
			t.Errorf("FormatClockDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{45 * time.Minute, "45m"},
		{0, "0m"},
		{-time.Minute, "0m"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatClockTime(t *testing.T) {
	tests := []struct {
		raw, layout, want string
	}{
		{"05:12", "15:04", "05:12"},
		{"18:03", "3:04 PM", "6:03 PM"},
		{"18:03 (+06)", "15:04", "18:03"},
		{"n/a", "15:04", "n/a"},
	}
	for _, tt := range tests {
		if got := FormatClockTime(tt.raw, tt.layout); got != tt.want {
			t.Errorf("FormatClockTime(%q, %q) = %q, want %q", tt.raw, tt.layout, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw     string
		h, m    int
		wantErr bool
	}{
		{"05:12", 5, 12, false},
		{"18:03 (+06)", 18, 3, false},
		{"0:00", 0, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"1203", 0, 0, true},
		{"aa:bb", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := ParseClock(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) should fail", tt.raw)
			}
			continue
		}
		if err != nil || h != tt.h || m != tt.m {
			t.Errorf("ParseClock(%q) = %d, %d, %v", tt.raw, h, m, err)
		}
	}
}
