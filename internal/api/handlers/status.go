package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db         *models.Database
	cutoffDays int
	logger     *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, cutoffDays int, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:         db,
		cutoffDays: cutoffDays,
		logger:     logger,
	}
}

// KindStatus holds the per-kind record counts
type KindStatus struct {
	Total int `json:"total"`
	Stale int `json:"stale"`
}

// StatusResponse represents the status response
type StatusResponse struct {
	Movies KindStatus `json:"movies"`
	Shows  KindStatus `json:"shows"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cutoff := time.Now().AddDate(0, 0, -h.cutoffDays)
	var response StatusResponse

	for _, kind := range models.Kinds {
		total, err := h.db.CountMedia(kind)
		if err != nil {
			h.logger.WithError(err).Error("Failed to count media")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		stale, err := h.db.CountStale(kind, cutoff)
		if err != nil {
			h.logger.WithError(err).Error("Failed to count stale media")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		status := KindStatus{Total: total, Stale: stale}
		switch kind {
		case models.MediaKindMovie:
			response.Movies = status
		case models.MediaKindShow:
			response.Shows = status
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
