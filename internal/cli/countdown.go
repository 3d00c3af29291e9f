package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-live/internal/display"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

type countdownOptions struct {
	format  string
	once    bool
	refresh time.Duration
}

func (a *app) newCountdownCmd() *cobra.Command {
	opts := &countdownOptions{}

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Live countdown to the next Sehri or Iftar",
		Long: `Show time remaining until the next boundary, updated every second.

Formats: clock (05:48:12), short (5h 48m), full (Day 1 · Iftar 18:03 (05:48:12)),
or a Go template such as "{{.Label}} in {{.Clock}}".
Template fields: .Phase .Label .Target .Remaining .Clock .Fasting .Day`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCountdown(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", countdown.FormatFull, "Output format or Go template")
	f.BoolVar(&opts.once, "once", false, "Print a single line and exit")
	f.DurationVar(&opts.refresh, "refresh", time.Hour, "Reload the calendar this often while running (0 disables)")

	return cmd
}

func (a *app) runCountdown(cmd *cobra.Command, opts *countdownOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	layout := a.timeLayout()

	l, files, err := a.loader()
	if err != nil {
		return err
	}
	p, err := a.resolvePreset(ctx, files)
	if err != nil {
		return err
	}
	snap, _ := l.Load(ctx, p)

	if a.flags.JSON || opts.once {
		return a.printCountdown(cmd, snap, opts.format)
	}

	tk := countdown.NewTicker(countdown.DefaultInterval, a.now)
	defer tk.Stop()

	emit := func(st countdown.State) {
		fmt.Fprint(out, clearLine+display.CountdownLine(st, opts.format, layout))
	}
	start := func(s *calendar.Snapshot) {
		if !tk.Start(ctx, s, emit) {
			fmt.Fprint(out, clearLine+display.Red(display.UnavailableMessage))
		}
	}
	start(snap)

	// A nil channel never fires, so a non-positive interval disables reloads.
	var reload <-chan time.Time
	if opts.refresh > 0 {
		refresh := time.NewTicker(opts.refresh)
		defer refresh.Stop()
		reload = refresh.C
	}

	for {
		select {
		case <-ctx.Done():
			tk.Stop()
			fmt.Fprintln(out)
			return nil
		case <-reload:
			if s, current := l.Load(ctx, p); current {
				start(s)
			}
		}
	}
}

// printCountdown writes one evaluation of the countdown and returns.
func (a *app) printCountdown(cmd *cobra.Command, snap *calendar.Snapshot, format string) error {
	out := cmd.OutOrStdout()
	now := a.now()

	st, ok := countdown.Evaluate(now, snap.Days, snap.Location)
	if a.flags.JSON {
		if !ok {
			return writeJSON(out, snap.View(now))
		}
		return writeJSON(out, st.View(a.timeLayout()))
	}
	if !ok {
		fmt.Fprintln(out, display.Red(display.UnavailableMessage))
		return nil
	}
	fmt.Fprintln(out, display.CountdownLine(st, format, a.timeLayout()))
	return nil
}
