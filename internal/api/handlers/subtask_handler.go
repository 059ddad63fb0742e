package handlers

import (
	"net/http"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type SubtaskHandler struct {
	subtaskService *service.SubtaskService
}

func NewSubtaskHandler(subtaskService *service.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{
		subtaskService: subtaskService,
	}
}

func (h *SubtaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	subtasks, err := h.subtaskService.ListSubtasks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subtasks": subtasks})
}

func (h *SubtaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	var in models.CreateSubtaskInput
	if !readBody(w, r, &in) {
		return
	}

	subtask, err := h.subtaskService.AddSubtask(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"subtask": subtask})
}

func (h *SubtaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var patch models.UpdateSubtaskInput
	if !readBody(w, r, &patch) {
		return
	}

	subtask, err := h.subtaskService.UpdateSubtask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subtask": subtask})
}

func (h *SubtaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := h.subtaskService.DeleteSubtask(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
