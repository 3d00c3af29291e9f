package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-live/internal/display"
)

func (a *app) newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the supported location presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := a.registry.All()
			if a.flags.JSON {
				return writeJSON(out, presets)
			}

			t := display.NewTable("Key", "Label", "Timezone")
			for _, p := range presets {
				t.AddRow(p.Key, p.Label, p.Timezone)
			}
			fmt.Fprint(out, t.Render())
			return nil
		},
	}
}
