package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/catalogarr/internal/controllers"
	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/utils"
)

// nopEnqueuer records scheduled refreshes without a broker
type nopEnqueuer struct {
	ids []uint64
}

func (n *nopEnqueuer) EnqueueSync(kind models.MediaKind, mediaID uint64, delay time.Duration) error {
	n.ids = append(n.ids, mediaID)
	return nil
}

func testMediaHandler(t *testing.T) (*MediaHandler, *models.Database, *nopEnqueuer) {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	enqueuer := &nopEnqueuer{}
	ctrl := controllers.NewSyncController(db, enqueuer, time.Minute, time.Minute, utils.NewLogger("error", "text"))
	return NewMediaHandler(db, ctrl, models.MediaKindMovie, utils.NewLogger("error", "text")), db, enqueuer
}

func TestDetail_CreatesShellAndSchedulesRefresh(t *testing.T) {
	handler, db, enqueuer := testMediaHandler(t)

	rec := httptest.NewRecorder()
	handler.Detail(rec, httptest.NewRequest(http.MethodGet, "/movie/tt0133093", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	media, err := db.GetMediaByImdbID(models.MediaKindMovie, "tt0133093")
	if err != nil {
		t.Fatalf("expected shell record to exist: %v", err)
	}
	if len(enqueuer.ids) != 1 || enqueuer.ids[0] != media.ID {
		t.Errorf("expected one refresh scheduled for %d, got %v", media.ID, enqueuer.ids)
	}
}

func TestDetail_BarePathRejected(t *testing.T) {
	handler, db, enqueuer := testMediaHandler(t)

	// ServeMux redirects GET /movie to /movie/, so the handler sees the
	// trailing-slash form with no id
	rec := httptest.NewRecorder()
	handler.Detail(rec, httptest.NewRequest(http.MethodGet, "/movie/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bare path, got %d", rec.Code)
	}
	count, err := db.CountMedia(models.MediaKindMovie)
	if err != nil {
		t.Fatalf("failed to count media: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no record created, got %d", count)
	}
	if len(enqueuer.ids) != 0 {
		t.Errorf("expected no refresh scheduled, got %v", enqueuer.ids)
	}
}

func TestDetail_NestedPathRejected(t *testing.T) {
	handler, db, _ := testMediaHandler(t)

	rec := httptest.NewRecorder()
	handler.Detail(rec, httptest.NewRequest(http.MethodGet, "/movie/tt0133093/extra", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for nested path, got %d", rec.Code)
	}
	count, err := db.CountMedia(models.MediaKindMovie)
	if err != nil {
		t.Fatalf("failed to count media: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no record created, got %d", count)
	}
}
