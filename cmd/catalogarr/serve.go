package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/catalogarr/internal/api"
	"github.com/amaumene/catalogarr/internal/config"
	"github.com/amaumene/catalogarr/internal/controllers"
	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/queue"
	"github.com/amaumene/catalogarr/internal/scheduler"
	"github.com/amaumene/catalogarr/internal/services/extractor"
	"github.com/amaumene/catalogarr/internal/services/tmdb"
	"github.com/amaumene/catalogarr/internal/utils"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog daemon: API, sync workers and periodic batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting catalogarr")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Connect to the task queue
	q, err := queue.Connect(cfg.NatsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to task queue: %w", err)
	}
	defer q.Close()

	// 5. Initialize services
	tmdbClient, err := tmdb.NewClient(cfg.TmdbAPIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	ext := extractor.New(tmdbClient, cfg.TmdbImageBase, logger)

	// 6. Initialize controllers
	syncCtrl := controllers.NewSyncController(db, q, cfg.SyncDelayMin, cfg.SyncDelayMax, logger)
	refreshCtrl := controllers.NewRefreshController(db, ext, logger)
	logger.Info("Controllers initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Start sync workers
	consumerErrChan := make(chan error, 1)
	go func() {
		if err := q.RunConsumer(ctx, refreshCtrl, cfg.SyncWorkers); err != nil {
			consumerErrChan <- err
		}
	}()

	// 8. Initialize scheduler
	sched := scheduler.NewScheduler(syncCtrl, cfg.SyncCutoffDays, cfg.SyncBatchLimit, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 9. Initialize HTTP server
	server := api.NewServer(cfg, db, syncCtrl, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("catalogarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case err := <-consumerErrChan:
		return fmt.Errorf("consumer error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("catalogarr stopped")
	return nil
}
