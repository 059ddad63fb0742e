package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
)

func (c *Client) ListSubtasks(ctx context.Context, taskID string) ([]models.Subtask, error) {
	var resp subtasksResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID)+"/subtasks", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Subtasks == nil {
		resp.Subtasks = []models.Subtask{}
	}
	return resp.Subtasks, nil
}

func (c *Client) AddSubtask(ctx context.Context, taskID string, in models.CreateSubtaskInput) (models.Subtask, error) {
	var resp subtaskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID)+"/subtasks", in, &resp); err != nil {
		return models.Subtask{}, err
	}
	return resp.Subtask, nil
}

func (c *Client) UpdateSubtask(ctx context.Context, id string, patch models.UpdateSubtaskInput) (models.Subtask, error) {
	var resp subtaskResponse
	if err := c.do(ctx, http.MethodPatch, "/subtasks/"+url.PathEscape(id), patch, &resp); err != nil {
		return models.Subtask{}, err
	}
	return resp.Subtask, nil
}

func (c *Client) DeleteSubtask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/subtasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListTemplates(ctx context.Context) ([]models.TaskTemplate, error) {
	var resp templatesResponse
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Templates == nil {
		resp.Templates = []models.TaskTemplate{}
	}
	return resp.Templates, nil
}

func (c *Client) GetTemplate(ctx context.Context, id string) (models.TaskTemplate, error) {
	var resp templateResponse
	if err := c.do(ctx, http.MethodGet, "/templates/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.TaskTemplate{}, err
	}
	return resp.Template, nil
}

func (c *Client) CreateTemplate(ctx context.Context, in models.CreateTemplateInput) (models.TaskTemplate, error) {
	var resp templateResponse
	if err := c.do(ctx, http.MethodPost, "/templates", in, &resp); err != nil {
		return models.TaskTemplate{}, err
	}
	return resp.Template, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id string, patch models.UpdateTemplateInput) (models.TaskTemplate, error) {
	var resp templateResponse
	if err := c.do(ctx, http.MethodPatch, "/templates/"+url.PathEscape(id), patch, &resp); err != nil {
		return models.TaskTemplate{}, err
	}
	return resp.Template, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/templates/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateTaskFromTemplate(ctx context.Context, id string, in models.UseTemplateInput) (models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/templates/"+url.PathEscape(id)+"/tasks", in, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Task, nil
}

func (c *Client) LogPomodoro(ctx context.Context, in models.LogPomodoroInput) (models.PomodoroSession, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/pomodoro/sessions", in, &resp); err != nil {
		return models.PomodoroSession{}, err
	}
	return resp.Session, nil
}

func (c *Client) PomodoroStats(ctx context.Context, rng models.StatsRange) (models.PomodoroStats, error) {
	var resp pomodoroStatsResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/pomodoro/stats", rangeQuery(rng)), nil, &resp); err != nil {
		return models.PomodoroStats{}, err
	}
	if resp.Stats.SessionsByMode == nil {
		resp.Stats.SessionsByMode = []models.ModeStats{}
	}
	return resp.Stats, nil
}

func (c *Client) DailyPomodoroStats(ctx context.Context, rng models.StatsRange) ([]models.DailyPomodoroStats, error) {
	var resp pomodoroDailyResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/pomodoro/daily", rangeQuery(rng)), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Days == nil {
		resp.Days = []models.DailyPomodoroStats{}
	}
	return resp.Days, nil
}

func (c *Client) PomodoroStreak(ctx context.Context) (models.PomodoroStreak, error) {
	var resp streakResponse
	if err := c.do(ctx, http.MethodGet, "/pomodoro/streak", nil, &resp); err != nil {
		return models.PomodoroStreak{}, err
	}
	return resp.Streak, nil
}

func (c *Client) BestFocusTimes(ctx context.Context) ([]models.FocusTime, error) {
	var resp focusTimesResponse
	if err := c.do(ctx, http.MethodGet, "/pomodoro/focus-times", nil, &resp); err != nil {
		return nil, err
	}
	if resp.FocusTimes == nil {
		resp.FocusTimes = []models.FocusTime{}
	}
	return resp.FocusTimes, nil
}

func (c *Client) TaskPomodoroRates(ctx context.Context) ([]models.TaskPomodoroRate, error) {
	var resp taskRatesResponse
	if err := c.do(ctx, http.MethodGet, "/pomodoro/task-rates", nil, &resp); err != nil {
		return nil, err
	}
	if resp.TaskRates == nil {
		resp.TaskRates = []models.TaskPomodoroRate{}
	}
	return resp.TaskRates, nil
}

func (c *Client) Stats(ctx context.Context, days int) (models.StatsSummary, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var resp statsResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/stats", q.Encode()), nil, &resp); err != nil {
		return models.StatsSummary{}, err
	}
	return resp.Stats, nil
}

func (c *Client) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var resp badgesResponse
	if err := c.do(ctx, http.MethodGet, "/badges", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Badges == nil {
		resp.Badges = []models.Badge{}
	}
	return resp.Badges, nil
}

func (c *Client) CheckBadges(ctx context.Context) ([]models.Badge, error) {
	var resp badgesResponse
	if err := c.do(ctx, http.MethodPost, "/badges/check", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Badges == nil {
		resp.Badges = []models.Badge{}
	}
	return resp.Badges, nil
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

func rangeQuery(rng models.StatsRange) string {
	q := url.Values{}
	if rng.From != nil {
		q.Set("from", rng.From.UTC().Format(time.RFC3339Nano))
	}
	if rng.To != nil {
		q.Set("to", rng.To.UTC().Format(time.RFC3339Nano))
	}
	return q.Encode()
}
