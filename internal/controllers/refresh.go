package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/queue"
	"github.com/amaumene/catalogarr/internal/services/extractor"
	"github.com/amaumene/catalogarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
)

// MediaFiller is the extractor surface the refresh controller needs
type MediaFiller interface {
	Fill(ctx context.Context, media *models.Media) error
}

// RefreshController consumes sync tasks: it loads the record, runs the
// extractor fill and persists the result with an advanced sync timestamp
type RefreshController struct {
	db        *models.Database
	extractor MediaFiller
	logger    *logrus.Logger
}

// NewRefreshController creates a new refresh controller
func NewRefreshController(db *models.Database, extractor MediaFiller, logger *logrus.Logger) *RefreshController {
	return &RefreshController{
		db:        db,
		extractor: extractor,
		logger:    logger,
	}
}

// HandleSyncTask processes one delivered refresh task.
//
// A missing record is a stale reference and fails permanently. A provider
// no-match is a successful no-op sync: the record is untouched except for
// its sync timestamp, so permanently unmatched ids stop turning up in
// every stale scan. Provider outages are left to queue redelivery with the
// record untouched.
func (c *RefreshController) HandleSyncTask(ctx context.Context, task *queue.SyncTask) queue.Outcome {
	log := c.logger.WithFields(logrus.Fields{
		"task_id":  task.TaskID,
		"kind":     task.Kind,
		"media_id": task.MediaID,
	})

	media, err := c.db.GetMediaByID(task.MediaID)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			log.Warn("Media record no longer exists, dropping task")
			return queue.OutcomeFailed
		}
		log.WithError(err).Error("Failed to load media record")
		return queue.OutcomeRetry
	}

	log = log.WithField("imdb_id", media.ImdbID)

	if media.ImdbID == "" {
		log.Error("Media record has no external id, cannot sync")
		return queue.OutcomeFailed
	}

	err = c.extractor.Fill(ctx, media)
	switch {
	case errors.Is(err, extractor.ErrNoMatch):
		log.Info("Provider has no match, advancing sync time only")
	case errors.Is(err, tmdb.ErrProviderUnavailable):
		log.WithError(err).Warn("Provider unavailable, leaving task for redelivery")
		return queue.OutcomeRetry
	case err != nil:
		log.WithError(err).Error("Unexpected refresh failure")
		return queue.OutcomeFailed
	}

	now := time.Now()
	if now.After(media.SyncedAt) {
		media.SyncedAt = now
	}

	if err := c.db.UpsertMedia(media); err != nil {
		log.WithError(err).Error("Failed to persist refreshed media")
		return queue.OutcomeRetry
	}

	log.Debug("Media refreshed")
	return queue.OutcomeCompleted
}
