package handlers

import (
	"net/http"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type PomodoroHandler struct {
	pomodoroService *service.PomodoroService
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{
		pomodoroService: pomodoroService,
	}
}

func (h *PomodoroHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	var in models.LogPomodoroInput
	if !readBody(w, r, &in) {
		return
	}

	session, err := h.pomodoroService.LogPomodoro(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"session": session})
}

func (h *PomodoroHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.pomodoroService.PomodoroStats(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *PomodoroHandler) Daily(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	days, err := h.pomodoroService.DailyPomodoroStats(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (h *PomodoroHandler) Streak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.pomodoroService.PomodoroStreak(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"streak": streak})
}

func (h *PomodoroHandler) FocusTimes(w http.ResponseWriter, r *http.Request) {
	hours, err := h.pomodoroService.BestFocusTimes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"focus_times": hours})
}

func (h *PomodoroHandler) TaskRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.pomodoroService.TaskPomodoroRates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task_rates": rates})
}

func parseRange(r *http.Request) (models.StatsRange, error) {
	var rng models.StatsRange
	q := r.URL.Query()
	for key, dst := range map[string]**time.Time{
		"from": &rng.From,
		"to":   &rng.To,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return models.StatsRange{}, &models.ValidationError{Field: key, Message: "must be an RFC 3339 timestamp"}
		}
		*dst = &t
	}
	return rng, nil
}
