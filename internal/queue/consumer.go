package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// RunConsumer fetches sync tasks in batches of up to workers messages and
// processes each batch concurrently. It blocks until ctx is cancelled.
// Tasks delivered ahead of their NotBefore time are pushed back with the
// remaining delay, which is how the randomized scheduling window rides on
// JetStream's at-least-once redelivery.
func (q *Queue) RunConsumer(ctx context.Context, handler TaskHandler, workers int) error {
	sub, err := q.js.PullSubscribe(SubjectSync, durableName,
		nats.AckWait(2*time.Minute),
	)
	if err != nil {
		return err
	}

	q.logger.WithField("workers", workers).Info("Sync consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := sub.Fetch(workers, nats.MaxWait(2*time.Second))
		if err != nil {
			if err == nats.ErrTimeout || err == context.DeadlineExceeded {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			q.logger.WithError(err).Error("Failed to fetch sync tasks")
			time.Sleep(1 * time.Second)
			continue
		}

		var wg sync.WaitGroup
		for _, msg := range msgs {
			wg.Add(1)
			go func(m *nats.Msg) {
				defer wg.Done()
				q.handleMessage(ctx, m, handler)
			}(msg)
		}
		wg.Wait()
	}
}

func (q *Queue) handleMessage(ctx context.Context, m *nats.Msg, handler TaskHandler) {
	var task SyncTask
	if err := json.Unmarshal(m.Data, &task); err != nil {
		q.logger.WithError(err).Error("Invalid sync task payload, terminating message")
		if err := m.Term(); err != nil {
			q.logger.WithError(err).Error("Failed to terminate message")
		}
		return
	}

	if !task.Due(time.Now()) {
		if err := m.NakWithDelay(time.Until(task.NotBefore)); err != nil {
			q.logger.WithError(err).Error("Failed to defer sync task")
		}
		return
	}

	switch handler.HandleSyncTask(ctx, &task) {
	case OutcomeCompleted:
		if err := m.Ack(); err != nil {
			q.logger.WithError(err).Error("Failed to ack sync task")
		}
	case OutcomeRetry:
		if err := m.Nak(); err != nil {
			q.logger.WithError(err).Error("Failed to nak sync task")
		}
	default:
		if err := m.Term(); err != nil {
			q.logger.WithError(err).Error("Failed to terminate sync task")
		}
	}
}
