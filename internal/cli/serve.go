package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/api"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := api.New(&api.Handler{
				Source:    a.source(),
				Logger:    a.log,
				Version:   a.build.Version,
				Columns:   a.cfg.Columns,
				FirstPage: a.cfg.Extraction.FirstPage,
				LastPage:  a.cfg.Extraction.LastPage,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Infof("listening on %s", addr)
				errCh <- server.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.log.Infof("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.ShutdownWithContext(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
