package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/plantation-analytics/internal/insight"
	"github.com/iwvelando/plantation-analytics/internal/server"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	serverConfigLocation string
	addressOverride      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculators over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&addressOverride, "address", "", "listen address override (e.g. :8080)")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigLocation, err)
	}
	if addressOverride != "" {
		cfg.Address = addressOverride
	}

	logger, err = initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	narrator, err := insight.NewGenAINarrator(ctx, logger, cfg.Insight)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.BodySizeBytes(), version, narrator),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", cfg.Address),
			zap.String("op", "main.serve"),
			zap.String("version", version),
			zap.Bool("insights", narrator.Configured()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		zap.String("op", "main.serve"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
