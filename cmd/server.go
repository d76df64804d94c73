package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"movie-theater/internal/usecase"
	"movie-theater/internal/wire"
	"movie-theater/pkg/database"
	"movie-theater/pkg/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(contextOrBackground(ctx), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("Starting application",
		zap.String("app", rt.config.App.Name),
		zap.String("port", rt.config.App.Port),
		zap.Bool("debug", rt.config.App.Debug),
	)

	if err := database.Migrate(ctx, rt.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Wire all dependencies
	app := wire.Wiring(rt.repo, rt.config, rt.cache, rt.metrics, rt.logger)

	jobs, err := startJobs(app.Service, rt)
	if err != nil {
		return err
	}
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			rt.logger.Warn("Scheduler shutdown failed", zap.Error(err))
		}
	}()

	return APIServer(ctx, app.Router, rt.config.App.Port, rt.logger)
}

// APIServer serves handler on port until ctx is cancelled, then drains
// in-flight requests.
func APIServer(ctx context.Context, handler http.Handler, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// startJobs schedules the background maintenance tasks
func startJobs(service *usecase.Service, rt *deps) (*scheduler.Scheduler, error) {
	jobs, err := scheduler.New(rt.logger)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(rt.config.Session.CleanupMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	err = jobs.Every("session-cleanup", interval, func(ctx context.Context) error {
		n, err := service.Auth.CleanExpiredSessions(ctx)
		if err != nil {
			return err
		}
		rt.metrics.SessionsCleaned(n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	jobs.Start()
	return jobs, nil
}
