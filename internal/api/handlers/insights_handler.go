package handlers

import (
	"net/http"
	"strconv"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

// InsightsHandler serves completion statistics and badges.
type InsightsHandler struct {
	statsService *service.StatsService
	badgeService *service.BadgeService
}

func NewInsightsHandler(statsService *service.StatsService, badgeService *service.BadgeService) *InsightsHandler {
	return &InsightsHandler{
		statsService: statsService,
		badgeService: badgeService,
	}
}

func (h *InsightsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, &models.ValidationError{Field: "days", Message: "must be a positive integer"})
			return
		}
		days = n
	}

	stats, err := h.statsService.Stats(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *InsightsHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badgeService.ListBadges(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

func (h *InsightsHandler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	awarded, err := h.badgeService.CheckBadges(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"badges": awarded})
}
