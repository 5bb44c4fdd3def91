// Package serve contains the command that runs the HTTP API server.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ops4go/phacts/internal/api"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/runtime"
)

// Command creates the serve command.
func Command(rt *runtime.Context) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.RequireService()
			if err != nil {
				return err
			}

			cfg := api.ConfigFromSettings(rt.Settings)
			if listen != "" {
				cfg.Listen = listen
			}

			// Metrics are created by runtime.Init when metrics.enabled is set,
			// so the service's remote calls are counted too.
			var opts []api.ServerOption
			if rt.Metrics != nil {
				opts = append(opts, api.WithMetrics(rt.Metrics))
			}

			server, err := api.New(cfg, svc, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from api.listen)")
	return cmd
}
