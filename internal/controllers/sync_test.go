package controllers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/utils"
)

// recordingEnqueuer captures scheduled tasks and can fail selected ids
type recordingEnqueuer struct {
	delays  []time.Duration
	ids     []uint64
	failFor map[uint64]bool
}

func (r *recordingEnqueuer) EnqueueSync(kind models.MediaKind, mediaID uint64, delay time.Duration) error {
	if r.failFor[mediaID] {
		return errEnqueueFailed
	}
	r.delays = append(r.delays, delay)
	r.ids = append(r.ids, mediaID)
	return nil
}

var errEnqueueFailed = errors.New("enqueue failed")

func testDB(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPickDelay_Window(t *testing.T) {
	min := 120 * time.Second
	max := 3600 * time.Second
	ctrl := NewSyncController(nil, nil, min, max, utils.NewLogger("error", "text"))

	window := max - min
	var buckets [4]int
	for i := 0; i < 1000; i++ {
		delay := ctrl.pickDelay()
		if delay < min || delay > max {
			t.Fatalf("delay %s outside window [%s, %s]", delay, min, max)
		}
		idx := int(4 * (delay - min) / (window + 1))
		buckets[idx]++
	}

	// Uniform draw: each quarter should see roughly 250 of 1000 samples.
	for i, count := range buckets {
		if count < 150 {
			t.Errorf("bucket %d underpopulated (%d of 1000), distribution not uniform", i, count)
		}
	}
}

func TestPickDelay_DegenerateWindow(t *testing.T) {
	ctrl := NewSyncController(nil, nil, time.Minute, time.Minute, utils.NewLogger("error", "text"))
	if delay := ctrl.pickDelay(); delay != time.Minute {
		t.Errorf("expected fixed delay, got %s", delay)
	}
}

func TestRunBatch_SchedulesStaleRecords(t *testing.T) {
	db := testDB(t)
	logger := utils.NewLogger("error", "text")

	old := time.Now().AddDate(0, 0, -200)
	fresh := time.Now()

	for i := 0; i < 3; i++ {
		media := &models.Media{ImdbID: fmt.Sprintf("tt000000%d", i+1), Kind: models.MediaKindMovie, SyncedAt: old}
		if err := db.CreateMedia(media); err != nil {
			t.Fatalf("failed to create media: %v", err)
		}
	}
	freshMedia := &models.Media{ImdbID: "tt0999999", Kind: models.MediaKindMovie, SyncedAt: fresh}
	if err := db.CreateMedia(freshMedia); err != nil {
		t.Fatalf("failed to create media: %v", err)
	}

	enq := &recordingEnqueuer{}
	ctrl := NewSyncController(db, enq, time.Second, 2*time.Second, logger)

	cutoff := time.Now().AddDate(0, 0, -180)
	counts, err := ctrl.RunBatch(context.Background(), cutoff, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if counts[models.MediaKindMovie] != 3 {
		t.Errorf("expected 3 movies scheduled, got %d", counts[models.MediaKindMovie])
	}
	for _, id := range enq.ids {
		if id == freshMedia.ID {
			t.Error("fresh record must not be scheduled")
		}
	}
}

func TestRunBatch_Limit(t *testing.T) {
	db := testDB(t)

	old := time.Now().AddDate(0, 0, -200)
	for i := 0; i < 10; i++ {
		media := &models.Media{ImdbID: "tt00000", Kind: models.MediaKindShow, SyncedAt: old}
		if err := db.CreateMedia(media); err != nil {
			t.Fatalf("failed to create media: %v", err)
		}
	}

	enq := &recordingEnqueuer{}
	ctrl := NewSyncController(db, enq, time.Second, 2*time.Second, utils.NewLogger("error", "text"))

	counts, err := ctrl.RunBatch(context.Background(), time.Now(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts[models.MediaKindShow] != 4 {
		t.Errorf("expected batch capped at 4, got %d", counts[models.MediaKindShow])
	}
}

func TestRunBatch_PartialEnqueueFailure(t *testing.T) {
	db := testDB(t)

	old := time.Now().AddDate(0, 0, -200)
	var ids []uint64
	for i := 0; i < 3; i++ {
		media := &models.Media{ImdbID: "tt00000", Kind: models.MediaKindMovie, SyncedAt: old}
		if err := db.CreateMedia(media); err != nil {
			t.Fatalf("failed to create media: %v", err)
		}
		ids = append(ids, media.ID)
	}

	// One failing enqueue must not abort the rest of the batch.
	enq := &recordingEnqueuer{failFor: map[uint64]bool{ids[1]: true}}
	ctrl := NewSyncController(db, enq, time.Second, 2*time.Second, utils.NewLogger("error", "text"))

	counts, err := ctrl.RunBatch(context.Background(), time.Now(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts[models.MediaKindMovie] != 2 {
		t.Errorf("expected 2 scheduled despite one failure, got %d", counts[models.MediaKindMovie])
	}
}
