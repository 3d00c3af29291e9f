package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-live/internal/server"
)

type serveOptions struct {
	addr    string
	refresh time.Duration
}

func (a *app) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar page, JSON API and live countdown stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "Listen address (overrides listen_addr)")
	f.DurationVar(&opts.refresh, "refresh", 6*time.Hour, "Reload every loaded location this often (0 disables)")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx := cmd.Context()

	season, err := a.settings.Season()
	if err != nil {
		return err
	}
	src, files := a.source()

	def, err := a.resolvePreset(ctx, files)
	if err != nil {
		return err
	}

	addr := a.settings.ListenAddr
	if opts.addr != "" {
		addr = opts.addr
	}

	srv := server.New(server.Options{
		Registry:        a.registry,
		Source:          src,
		Season:          season,
		Log:             a.log,
		DefaultLocation: def.Key,
		TimeLayout:      a.timeLayout(),
		Now:             a.now,
		Production:      a.settings.AppEnv == "production",
	})
	return srv.Run(ctx, addr, opts.refresh)
}
