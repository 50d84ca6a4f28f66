package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	streamName  = "CATALOG"
	SubjectSync = "catalog.sync"
	durableName = "catalog_sync_worker"
)

// Queue is the delayed sync task queue backed by NATS JetStream
type Queue struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Logger
}

// Connect establishes the NATS connection and ensures the catalog stream
// exists
func Connect(url string, logger *logrus.Logger) (*Queue, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	// Create stream if it doesn't exist.
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{"catalog.>"},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to create NATS stream (may already exist)")
	}

	logger.WithField("stream", streamName).Info("Queue initialised")
	return &Queue{nc: nc, js: js, logger: logger}, nil
}

// Close drains and closes the NATS connection
func (q *Queue) Close() {
	if q.nc != nil {
		q.nc.Close()
	}
}
