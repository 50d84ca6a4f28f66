package controllers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/sirupsen/logrus"
)

// Enqueuer is the queue surface the sync controller needs
type Enqueuer interface {
	EnqueueSync(kind models.MediaKind, mediaID uint64, delay time.Duration) error
}

// SyncController selects stale catalog records and schedules their refresh
// through the delayed queue
type SyncController struct {
	db       *models.Database
	queue    Enqueuer
	delayMin time.Duration
	delayMax time.Duration
	logger   *logrus.Logger
}

// NewSyncController creates a new sync controller. The delay window spreads
// a batch of N stale records over [delayMin, delayMax] instead of producing
// N simultaneous provider calls.
func NewSyncController(db *models.Database, queue Enqueuer, delayMin, delayMax time.Duration, logger *logrus.Logger) *SyncController {
	return &SyncController{
		db:       db,
		queue:    queue,
		delayMin: delayMin,
		delayMax: delayMax,
		logger:   logger,
	}
}

// RunBatch schedules a refresh for every record of every kind whose last
// sync is older than cutoff, at most limit records per kind. A failed
// enqueue is logged and does not abort the rest of the batch. Returns the
// number of records scheduled per kind.
func (c *SyncController) RunBatch(ctx context.Context, cutoff time.Time, limit int) (map[models.MediaKind]int, error) {
	counts := make(map[models.MediaKind]int)

	for _, kind := range models.Kinds {
		ids, err := c.db.FindStale(kind, cutoff, limit)
		if err != nil {
			// Store unavailable: the whole batch retries at the next
			// scheduled run.
			return counts, fmt.Errorf("failed to select stale %s records: %w", kind, err)
		}

		c.logger.WithFields(logrus.Fields{
			"kind":   kind,
			"count":  len(ids),
			"cutoff": cutoff,
		}).Info("Scheduling refresh for stale records")

		for _, id := range ids {
			if err := c.ScheduleRefresh(kind, id); err != nil {
				c.logger.WithError(err).WithFields(logrus.Fields{
					"kind":     kind,
					"media_id": id,
				}).Error("Failed to enqueue refresh, continuing batch")
				continue
			}
			counts[kind]++
		}
	}

	return counts, nil
}

// ScheduleRefresh enqueues one refresh task with a delay drawn uniformly
// from the configured window
func (c *SyncController) ScheduleRefresh(kind models.MediaKind, mediaID uint64) error {
	return c.queue.EnqueueSync(kind, mediaID, c.pickDelay())
}

// ScheduleImmediateRefresh enqueues one refresh task with no delay. Used by
// the lookup flow when a bare shell record is created.
func (c *SyncController) ScheduleImmediateRefresh(kind models.MediaKind, mediaID uint64) error {
	return c.queue.EnqueueSync(kind, mediaID, 0)
}

// pickDelay draws a delay uniformly from the closed interval
// [delayMin, delayMax]
func (c *SyncController) pickDelay() time.Duration {
	window := c.delayMax - c.delayMin
	if window <= 0 {
		return c.delayMin
	}
	return c.delayMin + time.Duration(rand.Int63n(int64(window)+1))
}
