package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veilproj/veil/internal/config"
	"github.com/veilproj/veil/internal/server"
	"github.com/veilproj/veil/web"
)

var (
	servePort      int
	serveDashboard bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the redaction HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides config)")
	serveCmd.Flags().BoolVar(&serveDashboard, "dashboard", true, "Serve embedded dashboard at / and /dashboard")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	apiKeys := config.ParseAPIKeys(cfg.APIKeys)
	if len(apiKeys) == 0 {
		log.Warn().Msg("VEIL_API_KEYS not set, the redaction API is open; set keys for production")
	}

	opts := []server.Option{
		server.WithAPIKeys(apiKeys),
		server.WithCORSOrigins(cfg.CORSOrigins),
		server.WithRateLimiter(server.NewRateLimiter(cfg.GlobalRPM, cfg.PerCallerRPM)),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	if serveDashboard {
		opts = append(opts, server.WithDashboard(web.DashboardHTML))
	}

	srv := server.NewServer(engine, opts...)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("addr", addr).
		Bool("dashboard", serveDashboard).
		Bool("ner", engine.NERAvailable()).
		Bool("synthetic", engine.SyntheticAvailable()).
		Msg("veil_serve_started")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown_signal_received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server_stopped")
	return nil
}
