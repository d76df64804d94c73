package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"movie-theater/internal/data/repository"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/database"
	"movie-theater/pkg/metrics"
	"movie-theater/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envPath string

	rootCmd = &cobra.Command{
		Use:   "movie-theater",
		Short: "Movie theater booking and review API",
		Long:  `Movie theater API: catalog browsing, seat bookings, reviews and an admin panel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "path to the .env configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, updateRatingsCmd)
}

// Execute runs the command named on the command line, serve by default
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// deps is everything a command needs after bootstrap
type deps struct {
	config  *utils.Config
	logger  *zap.Logger
	db      database.PgxIface
	repo    *repository.Repository
	cache   cache.Cache
	metrics *metrics.Metrics
}

func bootstrap() (*deps, error) {
	// Load config
	config, err := utils.LoadConfig(envPath)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("Database connected successfully")

	c, err := cache.New(config.Redis.URL, "theater:")
	if err != nil {
		// settings masih bisa dibaca langsung dari database
		logger.Warn("Redis unavailable, settings cache disabled", zap.Error(err))
		c = cache.Noop{}
	}

	return &deps{
		config:  config,
		logger:  logger,
		db:      db,
		repo:    repository.NewRepository(db, logger),
		cache:   c,
		metrics: metrics.New(config.Metrics.Namespace),
	}, nil
}

func (rt *deps) close() {
	if err := rt.cache.Close(); err != nil {
		rt.logger.Warn("Failed to close cache", zap.Error(err))
	}
	rt.db.Close()
	_ = rt.logger.Sync()
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
