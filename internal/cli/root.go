package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ramadan-live/internal/config"
	"github.com/smokyabdulrahman/ramadan-live/internal/display"
	"github.com/smokyabdulrahman/ramadan-live/internal/logger"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// flags are the global flags shared across all subcommands.
type flags struct {
	Location   string
	JSON       bool
	CacheDir   string
	TimeFormat string
	Match      string
	LogLevel   string
	EnvFile    string
}

// app is built once per invocation in PersistentPreRunE.
type app struct {
	flags    flags
	settings config.Settings
	registry *preset.Registry
	log      zerolog.Logger
	now      func() time.Time
}

// NewRootCmd creates the root command. The version is set by the calling
// binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &app{now: time.Now})
}

func newRootCmd(version string, a *app) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "ramadan-live",
		Short: "Ramadan Sehri/Iftar calendar and live countdown",
		Long: "Ramadan prayer-time calendar for a fixed set of cities, powered by the Al Adhan API.\n" +
			"Shows the 30-day schedule, a live countdown to the next Sehri or Iftar, and can serve both over HTTP.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		// Default action: show the calendar.
		RunE:          func(cmd *cobra.Command, args []string) error { return a.runCalendar(cmd) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.flags.Location, "location", "l", "", `Preset key (e.g. "Dhaka,BD") or "auto"`)
	pf.BoolVar(&a.flags.JSON, "json", false, "Output as JSON")
	pf.StringVar(&a.flags.CacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/ramadan-live/)")
	pf.StringVar(&a.flags.TimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&a.flags.Match, "match", "", `Day selection: "dates" or "hijri"`)
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&a.flags.EnvFile, "env-file", ".env", "Optional .env file to load")

	rootCmd.AddCommand(a.newCalendarCmd())
	rootCmd.AddCommand(a.newCountdownCmd())
	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(a.newLocationsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setup merges flags > env > config file > defaults and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	file, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv(a.flags.EnvFile)
	if err != nil {
		return err
	}
	s := config.Resolve(file, env)

	f := cmd.Flags()
	if flagWasSet(f, "location") {
		s.Location = a.flags.Location
	}
	if flagWasSet(f, "cache-dir") {
		s.CacheDir = a.flags.CacheDir
	}
	if flagWasSet(f, "time-format") {
		s.TimeFormat = a.flags.TimeFormat
	}
	if flagWasSet(f, "match") {
		s.Match = a.flags.Match
	}
	if flagWasSet(f, "log-level") {
		s.LogLevel = a.flags.LogLevel
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := config.ValidateLocation(s.Location); err != nil {
		return err
	}

	a.settings = s
	a.registry = preset.MustDefault()
	a.log = logger.New(s.AppEnv, s.LogLevel, cmd.ErrOrStderr())
	if a.flags.JSON {
		display.SetEnabled(false)
	}
	return nil
}

func flagWasSet(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
