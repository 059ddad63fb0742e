package client

import (
	"context"

	"github.com/TWRT/taskdesk/internal/models"
)

// TaskBackend is the persistence boundary the task store talks to. The
// backend assigns ids and timestamps and returns canonical records.
type TaskBackend interface {
	ListTasks(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleComplete(ctx context.Context, id string) (models.Task, error)
}

type ProgressProvider interface {
	GetProgress(ctx context.Context) (models.UserProgress, error)
}

type ProjectProvider interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type SubtaskProvider interface {
	ListSubtasks(ctx context.Context, taskID string) ([]models.Subtask, error)
	AddSubtask(ctx context.Context, taskID string, in models.CreateSubtaskInput) (models.Subtask, error)
	UpdateSubtask(ctx context.Context, id string, patch models.UpdateSubtaskInput) (models.Subtask, error)
	DeleteSubtask(ctx context.Context, id string) error
}

type TemplateProvider interface {
	ListTemplates(ctx context.Context) ([]models.TaskTemplate, error)
	GetTemplate(ctx context.Context, id string) (models.TaskTemplate, error)
	CreateTemplate(ctx context.Context, in models.CreateTemplateInput) (models.TaskTemplate, error)
	UpdateTemplate(ctx context.Context, id string, patch models.UpdateTemplateInput) (models.TaskTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	CreateTaskFromTemplate(ctx context.Context, id string, in models.UseTemplateInput) (models.Task, error)
}

type PomodoroProvider interface {
	LogPomodoro(ctx context.Context, in models.LogPomodoroInput) (models.PomodoroSession, error)
	PomodoroStats(ctx context.Context, rng models.StatsRange) (models.PomodoroStats, error)
	DailyPomodoroStats(ctx context.Context, rng models.StatsRange) ([]models.DailyPomodoroStats, error)
	PomodoroStreak(ctx context.Context) (models.PomodoroStreak, error)
	BestFocusTimes(ctx context.Context) ([]models.FocusTime, error)
	TaskPomodoroRates(ctx context.Context) ([]models.TaskPomodoroRate, error)
}

type InsightsProvider interface {
	Stats(ctx context.Context, days int) (models.StatsSummary, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	CheckBadges(ctx context.Context) ([]models.Badge, error)
}

type Backend interface {
	TaskBackend
	ProgressProvider
	ProjectProvider
	SubtaskProvider
	TemplateProvider
	PomodoroProvider
	InsightsProvider
}
