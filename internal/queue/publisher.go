package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrEnqueue indicates the queue rejected a sync task. Batch callers log it
// and continue with the remaining records.
var ErrEnqueue = errors.New("failed to enqueue sync task")

// EnqueueSync publishes a refresh task for delivery no earlier than
// now + delay
func (q *Queue) EnqueueSync(kind models.MediaKind, mediaID uint64, delay time.Duration) error {
	task := SyncTask{
		TaskID:    uuid.NewString(),
		Kind:      kind,
		MediaID:   mediaID,
		NotBefore: time.Now().Add(delay).UTC(),
	}

	data, err := json.Marshal(task)
	if err != nil {
		return enqueueErr("marshal sync task", err)
	}

	ack, err := q.js.Publish(SubjectSync, data)
	if err != nil {
		return enqueueErr("publish sync task", err)
	}

	q.logger.WithFields(logrus.Fields{
		"task_id":    task.TaskID,
		"kind":       kind,
		"media_id":   mediaID,
		"not_before": task.NotBefore,
		"seq":        ack.Sequence,
	}).Debug("Sync task enqueued")
	return nil
}

// enqueueErr pairs the ErrEnqueue sentinel with the underlying cause so
// callers can match either
func enqueueErr(op string, err error) error {
	return errors.Join(ErrEnqueue, fmt.Errorf("%s: %w", op, err))
}
