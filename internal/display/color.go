// Package display renders the Ramadan schedule and countdown for terminals.
//
// Colors use raw ANSI codes and honour NO_COLOR (https://no-color.org/);
// they are disabled when stdout is not a terminal.
package display

import (
	"os"

	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
)

// ANSI escape codes for styling.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// enabled reports whether color output is active. It is decided once at
// package init and only changed through SetEnabled.
var enabled = shouldEnable()

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	// Respect NO_COLOR (https://no-color.org/).
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	// FORCE_COLOR wins over terminal detection.
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	// Plain output when stdout is piped or redirected: a terminal is a
	// character device.
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// SetEnabled overrides the auto-detected color state.
// The CLI turns colors off for --json; tests use it for stable output.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// wrap applies an ANSI code around text, only when colors are enabled.
func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold returns text rendered in bold.
func Bold(text string) string { return wrap(bold, text) }

// Dim returns text rendered in dim/faint.
func Dim(text string) string { return wrap(dim, text) }

// Red returns text rendered in red.
func Red(text string) string { return wrap(red, text) }

// Accent returns text rendered in the accent color (cyan + bold).
// Used for today's row in the schedule.
func Accent(text string) string { return wrap(bold+cyan, text) }

// PhaseColor renders text in the color of a countdown phase: yellow while
// waiting for Sehri to end, green while fasting, cyan after Iftar.
func PhaseColor(p countdown.Phase, text string) string {
	switch p {
	case countdown.AwaitingSehriEnd:
		return wrap(yellow, text)
	case countdown.Fasting:
		return wrap(green, text)
	default:
		return wrap(cyan, text)
	}
}
