package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/amaumene/catalogarr/internal/controllers"
	"github.com/amaumene/catalogarr/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	pageSize = 50

	// Listing responses are cacheable for 12 hours downstream
	cacheControl = "public, s-maxage=43200"
)

var sciFiRe = regexp.MustCompile(`(?i)^(sci[-\s]?fi|science[-\s]fiction)$`)

// MediaHandler serves the paginated catalog listing and the detail lookup
// for one media kind
type MediaHandler struct {
	db       *models.Database
	syncCtrl *controllers.SyncController
	kind     models.MediaKind
	logger   *logrus.Logger
}

// NewMediaHandler creates a new media handler for the given kind
func NewMediaHandler(db *models.Database, syncCtrl *controllers.SyncController, kind models.MediaKind, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{
		db:       db,
		syncCtrl: syncCtrl,
		kind:     kind,
		logger:   logger,
	}
}

// Index handles the page-link index endpoint (GET /movies, GET /shows)
func (h *MediaHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.db.CountMedia(h.kind)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count media")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	prefix := strings.TrimPrefix(r.URL.Path, "/")
	pages := int(math.Ceil(float64(count) / float64(pageSize)))
	links := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		links = append(links, fmt.Sprintf("%s/%d", prefix, page))
	}

	writeJSON(w, links)
}

// Page handles one listing page (GET /movies/{page}, GET /shows/{page})
func (h *MediaHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	page, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || page < 1 {
		http.Error(w, "Invalid page", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	genre := strings.ToLower(query.Get("genre"))
	if sciFiRe.MatchString(genre) {
		genre = "science-fiction"
	}

	sortBy := query.Get("sort")
	descending := true
	if order, err := strconv.Atoi(query.Get("order")); err == nil && order > 0 {
		descending = false
	}

	medias, err := h.db.GetMediaPage(h.kind, genre, query.Get("keywords"), sortBy, descending, pageSize*(page-1), pageSize)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get media page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]interface{}, 0, len(medias))
	for _, media := range medias {
		items = append(items, mediaJSON(media))
	}

	writeJSON(w, items)
}

// Detail handles the lookup-by-external-id endpoint (GET /movie/{id},
// GET /show/{id}). An unknown id creates a bare shell record and schedules
// an immediate refresh; the shell is returned as-is, pending its first sync.
func (h *MediaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imdbID := strings.TrimPrefix(r.URL.Path, "/"+string(h.kind)+"/")
	if imdbID == "" || strings.Contains(imdbID, "/") {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	media, created, err := h.db.FindOrCreateByImdb(h.kind, imdbID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to find or create media")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if created {
		h.logger.WithFields(logrus.Fields{
			"kind":    h.kind,
			"imdb_id": imdbID,
		}).Info("Created shell record, scheduling first sync")
		if err := h.syncCtrl.ScheduleImmediateRefresh(h.kind, media.ID); err != nil {
			h.logger.WithError(err).Error("Failed to schedule first sync")
		}
	}

	writeJSON(w, mediaJSON(media))
}

// mediaJSON shapes a media record for API consumers
func mediaJSON(media *models.Media) map[string]interface{} {
	out := map[string]interface{}{
		"_id":      media.ImdbID,
		"imdb_id":  media.ImdbID,
		"title":    media.Title,
		"year":     media.Year,
		"synopsis": media.Synopsis,
		"runtime":  media.Runtime,
		"genres":   media.Genres,
		"images": map[string]string{
			"poster": media.Images.Poster,
			"fanart": media.Images.Fanart,
			"banner": media.Images.Banner,
		},
		"rating": map[string]interface{}{
			"votes":      media.Rating.Votes,
			"watching":   media.Rating.Watching,
			"percentage": media.Rating.Percentage,
		},
	}

	switch media.Kind {
	case models.MediaKindMovie:
		out["released"] = media.Released.Unix()
		out["certification"] = media.Certification
		out["trailer"] = media.Trailer
	case models.MediaKindShow:
		out["tvdb_id"] = media.TvdbID
		out["status"] = media.Status
		out["num_seasons"] = media.NumSeasons
		out["country"] = media.Country
		out["network"] = media.Network
		out["slug"] = media.Slug
		out["air_day"] = media.AirDay
		out["air_time"] = media.AirTime
		out["last_updated"] = media.LastAired.Unix()
	}

	return out
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	json.NewEncoder(w).Encode(data)
}
