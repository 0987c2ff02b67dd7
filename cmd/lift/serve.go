// ABOUTME: CLI command for running the JSON HTTP API.
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve the lift HTTP API for web and mobile clients.

ENDPOINTS (under /api/v1):

  entries     GET, POST, GET/DELETE {id}, POST {id}/toggle
  sessions    GET, POST, GET/DELETE {id}, POST {id}/toggle, GET {id}/progress,
              POST {id}/exercises, DELETE {id}/exercises/{position}
  exercises   GET {id}, POST {id}/toggle, GET/POST {id}/sets
  templates   GET, GET {name}

Positions over HTTP are 0-based. The listen address defaults to
127.0.0.1:8080 and can be set with --addr, LIFT_ADDR, or "addr" in config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		addr := cfg.GetAddr()
		log := slog.Default()

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		httpSrv := &http.Server{
			Handler:           server.New(repo, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s\n", listener.Addr())
		log.Info("server starting", "addr", listener.Addr().String(), "backend", cfg.GetBackend())

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
