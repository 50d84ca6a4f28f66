package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/amaumene/catalogarr/internal/queue"
	"github.com/amaumene/catalogarr/internal/services/extractor"
	"github.com/amaumene/catalogarr/internal/services/tmdb"
	"github.com/amaumene/catalogarr/internal/utils"
	"github.com/google/uuid"
)

// stubProvider implements extractor.Provider with one canned movie
type stubProvider struct {
	movie *tmdb.MovieDetail
}

func (s *stubProvider) FindByImdb(ctx context.Context, imdbID string) (*tmdb.FindResult, error) {
	return &tmdb.FindResult{MovieResults: []tmdb.FindMatch{{ID: s.movie.ID}}}, nil
}

func (s *stubProvider) GetMovie(ctx context.Context, id int) (*tmdb.MovieDetail, error) {
	return s.movie, nil
}

func (s *stubProvider) GetTV(ctx context.Context, id int) (*tmdb.TVDetail, error) {
	return nil, tmdb.ErrNotFound
}

// TestPipeline_StaleMovieRefresh walks one record through the whole chain:
// stale selection, delayed scheduling and the worker-side fill.
func TestPipeline_StaleMovieRefresh(t *testing.T) {
	db := testDB(t)
	logger := utils.NewLogger("error", "text")

	media := &models.Media{
		ImdbID:   "tt0133093",
		Kind:     models.MediaKindMovie,
		SyncedAt: time.Now().AddDate(0, 0, -200),
	}
	if err := db.CreateMedia(media); err != nil {
		t.Fatalf("failed to create media: %v", err)
	}

	// Selection and scheduling.
	enq := &recordingEnqueuer{}
	syncCtrl := NewSyncController(db, enq, 120*time.Second, 3600*time.Second, logger)

	cutoff := time.Now().AddDate(0, 0, -180)
	counts, err := syncCtrl.RunBatch(context.Background(), cutoff, 50)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if counts[models.MediaKindMovie] != 1 {
		t.Fatalf("expected 1 movie scheduled, got %d", counts[models.MediaKindMovie])
	}
	if enq.delays[0] < 120*time.Second || enq.delays[0] > 3600*time.Second {
		t.Fatalf("delay %s outside configured window", enq.delays[0])
	}

	// Worker processing with the provider snapshot.
	provider := &stubProvider{movie: &tmdb.MovieDetail{
		MediaCommon: tmdb.MediaCommon{
			ID:          603,
			VoteCount:   1200,
			Popularity:  15.3,
			VoteAverage: 7.8,
		},
		ImdbID:      "tt0133093",
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		ReleaseDates: tmdb.ReleaseDates{
			Results: []tmdb.ReleaseDatesGroup{
				{ISO31661: "US", ReleaseDates: []tmdb.ReleaseDate{{Certification: "PG-13"}}},
			},
		},
		Videos: tmdb.Videos{
			Results: []tmdb.Video{{Type: "Trailer", Site: "YouTube", Key: "X"}},
		},
	}}
	ext := extractor.New(provider, "http://image.tmdb.org/t/p/w500", logger)
	refreshCtrl := NewRefreshController(db, ext, logger)

	task := &queue.SyncTask{
		TaskID:    uuid.NewString(),
		Kind:      models.MediaKindMovie,
		MediaID:   enq.ids[0],
		NotBefore: time.Now().Add(-time.Second),
	}

	before := time.Now()
	if outcome := refreshCtrl.HandleSyncTask(context.Background(), task); outcome != queue.OutcomeCompleted {
		t.Fatalf("expected completed outcome, got %v", outcome)
	}

	stored, err := db.GetMediaByID(media.ID)
	if err != nil {
		t.Fatalf("failed to load media: %v", err)
	}
	if stored.Certification != "PG-13" {
		t.Errorf("certification mismatch: %q", stored.Certification)
	}
	if stored.Trailer != "https://www.youtube.com/watch?v=X" {
		t.Errorf("trailer mismatch: %q", stored.Trailer)
	}
	if stored.Rating.Percentage != 78.0 || stored.Rating.Watching != 153000 || stored.Rating.Votes != 1200 {
		t.Errorf("rating mismatch: %+v", stored.Rating)
	}
	if stored.SyncedAt.Before(before) {
		t.Errorf("expected SyncedAt updated, got %v", stored.SyncedAt)
	}
}
