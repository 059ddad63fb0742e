package remote

import "github.com/TWRT/taskdesk/internal/models"

type taskResponse struct {
	Task models.Task `json:"task"`
}

type tasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

type progressResponse struct {
	Progress models.UserProgress `json:"progress"`
}

type projectResponse struct {
	Project models.Project `json:"project"`
}

type projectsResponse struct {
	Projects []models.Project `json:"projects"`
}

// errorResponse mirrors the error envelope written by the API handlers.
type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

type subtaskResponse struct {
	Subtask models.Subtask `json:"subtask"`
}

type subtasksResponse struct {
	Subtasks []models.Subtask `json:"subtasks"`
}

type templateResponse struct {
	Template models.TaskTemplate `json:"template"`
}

type templatesResponse struct {
	Templates []models.TaskTemplate `json:"templates"`
}

type sessionResponse struct {
	Session models.PomodoroSession `json:"session"`
}

type pomodoroStatsResponse struct {
	Stats models.PomodoroStats `json:"stats"`
}

type pomodoroDailyResponse struct {
	Days []models.DailyPomodoroStats `json:"days"`
}

type streakResponse struct {
	Streak models.PomodoroStreak `json:"streak"`
}

type focusTimesResponse struct {
	FocusTimes []models.FocusTime `json:"focus_times"`
}

type taskRatesResponse struct {
	TaskRates []models.TaskPomodoroRate `json:"task_rates"`
}

type statsResponse struct {
	Stats models.StatsSummary `json:"stats"`
}

type badgesResponse struct {
	Badges []models.Badge `json:"badges"`
}
