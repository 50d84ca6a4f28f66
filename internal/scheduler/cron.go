package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/catalogarr/internal/controllers"
	"github.com/amaumene/catalogarr/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler triggers the periodic stale-record batch
type Scheduler struct {
	cron       *cron.Cron
	syncCtrl   *controllers.SyncController
	cutoffDays int
	batchLimit int
	logger     *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(syncCtrl *controllers.SyncController, cutoffDays, batchLimit int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		syncCtrl:   syncCtrl,
		cutoffDays: cutoffDays,
		batchLimit: batchLimit,
		logger:     logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 4 hours: schedule refresh of stale records
	_, err := s.cron.AddFunc("0 */4 * * *", func() {
		s.runSyncBatch()
	})
	if err != nil {
		return fmt.Errorf("failed to add sync batch job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run initial batch immediately
	go s.runSyncBatch()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runSyncBatch executes one stale-record batch
func (s *Scheduler) runSyncBatch() {
	s.logger.Info("Running scheduled sync batch")
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -s.cutoffDays)
	counts, err := s.syncCtrl.RunBatch(ctx, cutoff, s.batchLimit)
	if err != nil {
		s.logger.WithError(err).Error("Sync batch failed, will retry at next run")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"movies": counts[models.MediaKindMovie],
		"shows":  counts[models.MediaKindShow],
	}).Info("Sync batch completed")
}
