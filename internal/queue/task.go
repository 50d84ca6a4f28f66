package queue

import (
	"context"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
)

// SyncTask is the unit of refresh work carried through the queue. NotBefore
// implements the randomized scheduling delay: consumers push back any task
// delivered ahead of it.
type SyncTask struct {
	TaskID    string           `json:"task_id"`
	Kind      models.MediaKind `json:"kind"`
	MediaID   uint64           `json:"media_id"`
	NotBefore time.Time        `json:"not_before"`
}

// Due reports whether the task may be processed at the given time
func (t *SyncTask) Due(now time.Time) bool {
	return !now.Before(t.NotBefore)
}

// Outcome is the terminal state of one task delivery
type Outcome int

const (
	// OutcomeCompleted acknowledges the task, including successful no-op
	// syncs
	OutcomeCompleted Outcome = iota
	// OutcomeRetry leaves redelivery to the queue's own backoff
	OutcomeRetry
	// OutcomeFailed terminates the task permanently
	OutcomeFailed
)

// TaskHandler processes one delivered sync task
type TaskHandler interface {
	HandleSyncTask(ctx context.Context, task *SyncTask) Outcome
}
