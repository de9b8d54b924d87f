package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the matching API. Exposes single and batch match endpoints plus
a listing of persisted match records under /api/v1.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	cfg := server.DefaultConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	} else if addr := viper.GetString("server.addr"); addr != "" {
		cfg.Addr = addr
	}
	if viper.IsSet("server.rate_limit") {
		cfg.RateLimit = viper.GetFloat64("server.rate_limit")
	}
	if viper.IsSet("server.rate_burst") {
		cfg.RateBurst = viper.GetInt("server.rate_burst")
	}
	cfg.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	cfg.ReleaseMode = viper.GetBool("server.release_mode")

	e := engine.NewWithConfig(store, engineConfig())
	router := server.SetupRouter(cfg, server.NewHandler(e, store))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
