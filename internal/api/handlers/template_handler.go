package handlers

import (
	"net/http"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templateService.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"template": tmpl})
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTemplateInput
	if !readBody(w, r, &in) {
		return
	}

	tmpl, err := h.templateService.CreateTemplate(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"template": tmpl})
}

func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var patch models.UpdateTemplateInput
	if !readBody(w, r, &patch) {
		return
	}

	tmpl, err := h.templateService.UpdateTemplate(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"template": tmpl})
}

func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templateService.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTaskFromTemplate accepts an empty body.
func (h *TemplateHandler) CreateTaskFromTemplate(w http.ResponseWriter, r *http.Request) {
	var in models.UseTemplateInput
	if r.ContentLength != 0 && !readBody(w, r, &in) {
		return
	}

	task, err := h.templateService.CreateTaskFromTemplate(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}
