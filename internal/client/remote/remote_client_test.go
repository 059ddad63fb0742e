package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/taskdesk/internal/api"
	"github.com/TWRT/taskdesk/internal/config"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := repository.InitDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	srv := httptest.NewServer(api.SetupRouter(db, &cfg, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t).URL+"/", 0)

	tasks, err := c.ListTasks(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	due := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	created, err := c.CreateTask(ctx, models.CreateTaskInput{Title: "Renew passport", Priority: models.PriorityHigh, DueDate: &due})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.True(t, due.Equal(*created.DueDate))

	got, err := c.GetTask(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	title := "Renew passport today"
	updated, err := c.UpdateTask(ctx, created.Id, models.UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	toggled, err := c.ToggleComplete(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	progress, err := c.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), progress.TotalXP)

	completed := true
	done, err := c.ListTasks(ctx, &models.TaskFilter{Completed: &completed, Search: "passport"})
	require.NoError(t, err)
	assert.Len(t, done, 1)

	require.NoError(t, c.DeleteTask(ctx, created.Id))
	_, err = c.GetTask(ctx, created.Id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestClientProjects(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t).URL, time.Second)

	project, err := c.CreateProject(ctx, models.CreateProjectInput{Name: "Work"})
	require.NoError(t, err)

	projects, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.Id, projects[0].Id)

	require.NoError(t, c.DeleteProject(ctx, project.Id))
	assert.ErrorIs(t, c.DeleteProject(ctx, project.Id), models.ErrNotFound)
}

func TestClientValidationError(t *testing.T) {
	c := NewClient(newServer(t).URL, 0)

	_, err := c.CreateTask(context.Background(), models.CreateTaskInput{Title: "x", Priority: "urgent"})
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "priority", validation.Field)
}

func TestClientBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, time.Second)
	_, err := c.ListTasks(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestClientMapsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second)
	_, err := c.ToggleComplete(context.Background(), "abc")
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestClientBadRequestWithoutField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"JSON error: unexpected end"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second)
	_, err := c.CreateTask(context.Background(), models.CreateTaskInput{Title: "x", Priority: models.PriorityLow})
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "request", validation.Field)
	assert.Equal(t, "JSON error: unexpected end", validation.Message)
}

func TestFilterQuery(t *testing.T) {
	assert.Empty(t, filterQuery(nil))

	project := "p1"
	completed := false
	before := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	q, err := url.ParseQuery(filterQuery(&models.TaskFilter{
		ProjectId: &project,
		Completed: &completed,
		DueBefore: &before,
		Search:    "milk",
		TagId:     "t1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "p1", q.Get("project_id"))
	assert.Equal(t, "false", q.Get("completed"))
	assert.Equal(t, "2024-01-02T03:04:05Z", q.Get("due_before"))
	assert.Equal(t, "milk", q.Get("search"))
	assert.Equal(t, "t1", q.Get("tag_id"))
	assert.False(t, q.Has("due_after"))
}

func TestClientProductivity(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t).URL, time.Second)

	task, err := c.CreateTask(ctx, models.CreateTaskInput{Title: "Thesis", Priority: models.PriorityHigh})
	require.NoError(t, err)

	subtask, err := c.AddSubtask(ctx, task.Id, models.CreateSubtaskInput{Title: "Outline"})
	require.NoError(t, err)
	done := true
	subtask, err = c.UpdateSubtask(ctx, subtask.Id, models.UpdateSubtaskInput{Completed: &done})
	require.NoError(t, err)
	assert.True(t, subtask.Completed)
	subtasks, err := c.ListSubtasks(ctx, task.Id)
	require.NoError(t, err)
	assert.Len(t, subtasks, 1)
	require.NoError(t, c.DeleteSubtask(ctx, subtask.Id))
	assert.ErrorIs(t, c.DeleteSubtask(ctx, subtask.Id), models.ErrNotFound)

	tmpl, err := c.CreateTemplate(ctx, models.CreateTemplateInput{Name: "Review", Title: "Weekly review", Priority: models.PriorityMedium})
	require.NoError(t, err)
	due := time.Date(2024, 9, 6, 17, 0, 0, 0, time.UTC)
	fromTemplate, err := c.CreateTaskFromTemplate(ctx, tmpl.Id, models.UseTemplateInput{DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Weekly review", fromTemplate.Title)
	assert.True(t, due.Equal(*fromTemplate.DueDate))
	templates, err := c.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
	require.NoError(t, c.DeleteTemplate(ctx, tmpl.Id))
	_, err = c.GetTemplate(ctx, tmpl.Id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	start := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	session, err := c.LogPomodoro(ctx, models.LogPomodoroInput{
		TaskId:        &task.Id,
		StartedAt:     start,
		CompletedAt:   start.Add(25 * time.Minute),
		Mode:          models.PomodoroFocus,
		WasCompleted:  true,
		TaskCompleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, session.DurationSeconds)

	from := start.Add(-time.Hour)
	stats, err := c.PomodoroStats(ctx, models.StatsRange{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSessions)
	to := start.Add(-time.Minute)
	daily, err := c.DailyPomodoroStats(ctx, models.StatsRange{To: &to})
	require.NoError(t, err)
	assert.Empty(t, daily)
	streak, err := c.PomodoroStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	focus, err := c.BestFocusTimes(ctx)
	require.NoError(t, err)
	assert.Len(t, focus, 1)
	rates, err := c.TaskPomodoroRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.InDelta(t, 100.0, rates[0].CompletionRate, 1e-9)

	_, err = c.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)
	badges, err := c.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFirstTask, badges[0].Type)
	assert.Equal(t, map[string]int{"milestone": 1}, badges[0].Metadata)
	fresh, err := c.CheckBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	summary, err := c.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.Days)
	require.NotNil(t, summary.MostProductiveDay)
	assert.Equal(t, int64(1), summary.MostProductiveDay.Count)
}

func TestRangeQuery(t *testing.T) {
	assert.Equal(t, "", rangeQuery(models.StatsRange{}))

	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	q, err := url.ParseQuery(rangeQuery(models.StatsRange{From: &from}))
	require.NoError(t, err)
	assert.Equal(t, "2024-08-31T22:00:00Z", q.Get("from"))
	assert.Empty(t, q.Get("to"))

	assert.Equal(t, "/stats", withQuery("/stats", ""))
	assert.Equal(t, "/stats?days=7", withQuery("/stats", "days=7"))
}
