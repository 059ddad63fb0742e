package handlers

import (
	"net/http"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProjectInput
	if !readBody(w, r, &in) {
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": project})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
