package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-live/internal/display"
)

func (a *app) newCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show the Ramadan Sehri/Iftar schedule",
		Long:  "Fetch the Ramadan window for the selected location and print one row per day, with today highlighted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalendar(cmd)
		},
	}
}

func (a *app) runCalendar(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	l, files, err := a.loader()
	if err != nil {
		return err
	}
	p, err := a.resolvePreset(ctx, files)
	if err != nil {
		return err
	}

	snap, _ := l.Load(ctx, p)
	view := snap.View(a.now())

	if a.flags.JSON {
		return writeJSON(out, view)
	}

	fmt.Fprintln(out, display.Header(p.Label, len(snap.Misses)))
	fmt.Fprintln(out)
	if snap.Unavailable() {
		fmt.Fprintln(out, "  "+display.Red(display.UnavailableMessage))
		return nil
	}
	fmt.Fprint(out, display.Schedule(snap.Days, view.Today, a.timeLayout()))
	return nil
}
