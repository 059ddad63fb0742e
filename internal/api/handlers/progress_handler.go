package handlers

import (
	"net/http"

	"github.com/TWRT/taskdesk/internal/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progressService.GetProgress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"progress": progress})
}
