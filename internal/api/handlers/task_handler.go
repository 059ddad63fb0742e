package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTaskInput
	if !readBody(w, r, &in) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch models.UpdateTaskInput
	if !readBody(w, r, &patch) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.ToggleComplete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func parseFilter(r *http.Request) (*models.TaskFilter, error) {
	q := r.URL.Query()
	filter := &models.TaskFilter{
		Search: q.Get("search"),
		TagId:  q.Get("tag_id"),
	}

	if v := q.Get("project_id"); v != "" {
		filter.ProjectId = &v
	}
	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &models.ValidationError{Field: "completed", Message: "must be a boolean"}
		}
		filter.Completed = &completed
	}

	for key, dst := range map[string]**time.Time{
		"due_before": &filter.DueBefore,
		"due_after":  &filter.DueAfter,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, &models.ValidationError{Field: key, Message: "must be an RFC 3339 timestamp"}
		}
		*dst = &t
	}

	return filter, nil
}
