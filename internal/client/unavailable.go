package client

import (
	"context"
	"fmt"

	"github.com/TWRT/taskdesk/internal/models"
)

// Unavailable stands in for a backend that cannot be reached. Reads
// degrade to empty results; writes fail with ErrBackendUnavailable.
type Unavailable struct{}

var _ Backend = Unavailable{}

func unavailable(op string) error {
	return fmt.Errorf("%s: %w", op, models.ErrBackendUnavailable)
}

func (Unavailable) ListTasks(context.Context, *models.TaskFilter) ([]models.Task, error) {
	return []models.Task{}, nil
}

func (Unavailable) GetTask(_ context.Context, id string) (models.Task, error) {
	return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
}

func (Unavailable) CreateTask(context.Context, models.CreateTaskInput) (models.Task, error) {
	return models.Task{}, unavailable("create task")
}

func (Unavailable) UpdateTask(context.Context, string, models.UpdateTaskInput) (models.Task, error) {
	return models.Task{}, unavailable("update task")
}

func (Unavailable) DeleteTask(context.Context, string) error {
	return unavailable("delete task")
}

func (Unavailable) ToggleComplete(context.Context, string) (models.Task, error) {
	return models.Task{}, unavailable("toggle task")
}

func (Unavailable) GetProgress(context.Context) (models.UserProgress, error) {
	return models.UserProgress{CurrentLevel: 1, XPToNextLevel: 100}, nil
}

func (Unavailable) ListProjects(context.Context) ([]models.Project, error) {
	return []models.Project{}, nil
}

func (Unavailable) CreateProject(context.Context, models.CreateProjectInput) (models.Project, error) {
	return models.Project{}, unavailable("create project")
}

func (Unavailable) DeleteProject(context.Context, string) error {
	return unavailable("delete project")
}

func (Unavailable) ListSubtasks(context.Context, string) ([]models.Subtask, error) {
	return []models.Subtask{}, nil
}

func (Unavailable) AddSubtask(context.Context, string, models.CreateSubtaskInput) (models.Subtask, error) {
	return models.Subtask{}, unavailable("add subtask")
}

func (Unavailable) UpdateSubtask(context.Context, string, models.UpdateSubtaskInput) (models.Subtask, error) {
	return models.Subtask{}, unavailable("update subtask")
}

func (Unavailable) DeleteSubtask(context.Context, string) error {
	return unavailable("delete subtask")
}

func (Unavailable) ListTemplates(context.Context) ([]models.TaskTemplate, error) {
	return []models.TaskTemplate{}, nil
}

func (Unavailable) GetTemplate(_ context.Context, id string) (models.TaskTemplate, error) {
	return models.TaskTemplate{}, fmt.Errorf("template %s: %w", id, models.ErrNotFound)
}

func (Unavailable) CreateTemplate(context.Context, models.CreateTemplateInput) (models.TaskTemplate, error) {
	return models.TaskTemplate{}, unavailable("create template")
}

func (Unavailable) UpdateTemplate(context.Context, string, models.UpdateTemplateInput) (models.TaskTemplate, error) {
	return models.TaskTemplate{}, unavailable("update template")
}

func (Unavailable) DeleteTemplate(context.Context, string) error {
	return unavailable("delete template")
}

func (Unavailable) CreateTaskFromTemplate(context.Context, string, models.UseTemplateInput) (models.Task, error) {
	return models.Task{}, unavailable("create task from template")
}

func (Unavailable) LogPomodoro(context.Context, models.LogPomodoroInput) (models.PomodoroSession, error) {
	return models.PomodoroSession{}, unavailable("log pomodoro")
}

func (Unavailable) PomodoroStats(context.Context, models.StatsRange) (models.PomodoroStats, error) {
	return models.PomodoroStats{SessionsByMode: []models.ModeStats{}}, nil
}

func (Unavailable) DailyPomodoroStats(context.Context, models.StatsRange) ([]models.DailyPomodoroStats, error) {
	return []models.DailyPomodoroStats{}, nil
}

func (Unavailable) PomodoroStreak(context.Context) (models.PomodoroStreak, error) {
	return models.PomodoroStreak{}, nil
}

func (Unavailable) BestFocusTimes(context.Context) ([]models.FocusTime, error) {
	return []models.FocusTime{}, nil
}

func (Unavailable) TaskPomodoroRates(context.Context) ([]models.TaskPomodoroRate, error) {
	return []models.TaskPomodoroRate{}, nil
}

func (Unavailable) Stats(_ context.Context, days int) (models.StatsSummary, error) {
	return models.StatsSummary{
		Days:        days,
		Completions: []models.DailyCount{},
		Priorities:  []models.PriorityCount{},
		Projects:    []models.ProjectStats{},
		Trend:       []models.DailyRate{},
	}, nil
}

func (Unavailable) ListBadges(context.Context) ([]models.Badge, error) {
	return []models.Badge{}, nil
}

func (Unavailable) CheckBadges(context.Context) ([]models.Badge, error) {
	return nil, unavailable("check badges")
}
