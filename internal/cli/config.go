package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-live/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display the saved configuration, or use subcommands to modify it.",
		// The config file may be the thing that is broken, so skip the
		// root's settings resolution.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE:              runConfigShow,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  ramadan-live config set location Riyadh,SA\n  ramadan-live config set location auto\n  ramadan-live config set time_format 12h\n  ramadan-live config set match hijri",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a single config value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)
	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		if val == "" {
			val = "(not set)"
		}
		fmt.Fprintf(out, "  %-12s %s\n", key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
