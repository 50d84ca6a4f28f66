package main

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/catalogarr/internal/config"
	"github.com/amaumene/catalogarr/internal/controllers"
	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/queue"
	"github.com/amaumene/catalogarr/internal/utils"
	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	var days int
	var limit int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Schedule one refresh batch for stale records and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(days, limit)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "staleness age in days (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max records per kind (default from config)")

	return cmd
}

// runSync submits one batch. Individual enqueue failures are logged inside
// the batch loop and do not fail the command.
func runSync(days, limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if days <= 0 {
		days = cfg.SyncCutoffDays
	}
	if limit <= 0 {
		limit = cfg.SyncBatchLimit
	}

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	q, err := queue.Connect(cfg.NatsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to task queue: %w", err)
	}
	defer q.Close()

	syncCtrl := controllers.NewSyncController(db, q, cfg.SyncDelayMin, cfg.SyncDelayMax, logger)

	cutoff := time.Now().AddDate(0, 0, -days)
	counts, err := syncCtrl.RunBatch(context.Background(), cutoff, limit)
	if err != nil {
		return fmt.Errorf("sync batch failed: %w", err)
	}

	fmt.Printf("scheduled %d movies, %d shows\n", counts[models.MediaKindMovie], counts[models.MediaKindShow])
	return nil
}
