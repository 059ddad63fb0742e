package handlers

import (
	"net/http"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTagInput
	if !readBody(w, r, &in) {
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"tag": tag})
}

func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.tagService.DeleteTag(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TagHandler) ListTaskTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTaskTags(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (h *TagHandler) AddTagToTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tagService.AddTagToTask(r.Context(), r.PathValue("id"), r.PathValue("tagId")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TagHandler) RemoveTagFromTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tagService.RemoveTagFromTask(r.Context(), r.PathValue("id"), r.PathValue("tagId")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
