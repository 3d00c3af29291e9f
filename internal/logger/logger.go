// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger writing to w (stderr when nil). Production writes JSON
// lines; any other env writes human-readable console output. An empty or
// invalid level defaults to debug in development and info in production.
func New(env, level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl := zerolog.DebugLevel
	if env == "production" {
		lvl = zerolog.InfoLevel
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
