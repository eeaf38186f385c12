package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-eq/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine on generated noise behind an HTTP control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.newEngine(a.settings.Audio.SampleRate)
			if err != nil {
				return err
			}

			srv, err := server.New(*a.settings, e)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(ctx) })
			g.Go(func() error { return srv.Pump(ctx) })

			return g.Wait()
		},
	}

	cmd.Flags().String("listen", "", "HTTP listen address")
	cmd.Flags().Float64("update-rate", 0, "maximum parameter updates per second")
	cmd.Flags().Float64("noise-level", 0, "generated noise level in dBFS")
	a.bind(cmd.Flags(), map[string]string{
		"server.listen":         "listen",
		"server.update_rate":    "update-rate",
		"server.noise_level_db": "noise-level",
	})

	return cmd
}
