package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/dex-explorer/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr string
		warm bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr != "" {
				opts.config.Server.Addr = addr
			}
			return runServe(ctx, opts, warm)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&warm, "warm", false, "build the catalog before accepting requests")
	return cmd
}

func runServe(ctx context.Context, opts *options, warm bool) error {
	a, err := newApp(ctx, opts.config)
	if err != nil {
		return err
	}
	defer a.Close()

	if warm {
		entities, err := a.catalog.Load(ctx)
		if err != nil {
			return err
		}
		a.logger.Info().Int("entities", len(entities)).Msg("Catalog ready")
	}

	if opts.config.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              opts.config.Server.Addr,
		Handler:           server.New(a.catalog, a.client).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
