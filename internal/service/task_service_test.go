package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db        *sql.DB
	clock     *clock
	tasks     *TaskService
	progress  *ProgressService
	projects  *ProjectService
	tags      *TagService
	badges    *BadgeService
	subtasks  *SubtaskService
	templates *TemplateService
	pomodoro  *PomodoroService
	stats     *StatsService
}

func newFixture(t *testing.T, xp map[string]int) *fixture {
	t.Helper()
	db, err := repository.InitDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := &clock{t: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	taskRepo := repository.NewTaskRepository(db)

	statsRepo := repository.NewStatsRepository(db)

	progress := NewProgressService(repository.NewProgressRepository(db), xp, nil)
	progress.now = c.now
	badges := NewBadgeService(repository.NewBadgeRepository(db), statsRepo, progress, nil)
	badges.now = c.now
	tasks := NewTaskService(taskRepo, progress, badges, nil)
	tasks.now = c.now
	projects := NewProjectService(repository.NewProjectRepository(db), taskRepo)
	projects.now = c.now
	tags := NewTagService(repository.NewTagRepository(db), taskRepo)
	tags.now = c.now
	templates := NewTemplateService(repository.NewTemplateRepository(db), tasks)
	templates.now = c.now
	pomodoro := NewPomodoroService(repository.NewPomodoroRepository(db), taskRepo, nil)
	pomodoro.now = c.now
	stats := NewStatsService(statsRepo)
	stats.now = c.now

	return &fixture{
		db:        db,
		clock:     c,
		tasks:     tasks,
		progress:  progress,
		projects:  projects,
		tags:      tags,
		badges:    badges,
		subtasks:  NewSubtaskService(repository.NewSubtaskRepository(db), taskRepo),
		templates: templates,
		pomodoro:  pomodoro,
		stats:     stats,
	}
}

func TestCreateTaskAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Buy milk", Priority: models.PriorityMedium})
	require.NoError(t, err)

	_, err = uuid.Parse(task.Id)
	assert.NoError(t, err)
	assert.Equal(t, f.clock.t, task.CreatedAt)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, models.RecurrenceNone, task.Recurrence.Type)
	assert.Equal(t, 1, task.Recurrence.Interval)
	assert.False(t, task.Completed)

	got, err := f.tasks.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestCreateTaskHonoursCompletedAndOrder(t *testing.T) {
	f := newFixture(t, nil)

	task, err := f.tasks.CreateTask(context.Background(), models.CreateTaskInput{
		Title:      "Restored",
		Priority:   models.PriorityLow,
		Completed:  ptr(true),
		OrderIndex: ptr(4),
	})
	require.NoError(t, err)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, 4, task.OrderIndex)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.tasks.CreateTask(context.Background(), models.CreateTaskInput{Title: "", Priority: models.PriorityLow})
	assert.True(t, models.IsValidation(err))

	_, err = f.tasks.CreateTask(context.Background(), models.CreateTaskInput{Title: "x", Priority: "urgent"})
	assert.True(t, models.IsValidation(err))
}

func TestUpdateTaskPatchSemantics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{
		Title:       "Plan trip",
		Priority:    models.PriorityLow,
		Description: ptr("flights"),
		DueDate:     &due,
		ProjectId:   ptr("travel"),
	})
	require.NoError(t, err)

	f.clock.advance(time.Minute)
	updated, err := f.tasks.UpdateTask(ctx, task.Id, models.UpdateTaskInput{Priority: ptr(models.PriorityHigh)})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "flights", *updated.Description)
	assert.Equal(t, due, *updated.DueDate)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.Equal(t, f.clock.t, updated.UpdatedAt)

	cleared, err := f.tasks.UpdateTask(ctx, task.Id, models.UpdateTaskInput{
		Description: ptr(""),
		DueDate:     &time.Time{},
		ProjectId:   ptr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Nil(t, cleared.DueDate)
	assert.Nil(t, cleared.ProjectId)
}

func TestUpdatedAtNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "x", Priority: models.PriorityLow})
	require.NoError(t, err)

	f.clock.advance(-time.Hour)
	updated, err := f.tasks.UpdateTask(ctx, task.Id, models.UpdateTaskInput{Title: ptr("y")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
	assert.Equal(t, task.UpdatedAt, updated.UpdatedAt)
}

func TestUpdateAndDeleteMissingTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.tasks.UpdateTask(ctx, "nope", models.UpdateTaskInput{Title: ptr("y")})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, "nope"), models.ErrNotFound)
	_, err = f.tasks.ToggleComplete(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleGrantsAndRevokesXP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Ship", Priority: models.PriorityHigh})
	require.NoError(t, err)

	done, err := f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, f.clock.t, *done.CompletedAt)

	p, err := f.progress.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), p.TotalXP)
	assert.Equal(t, 1, p.CurrentStreak)

	undone, err := f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)

	p, err = f.progress.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.TotalXP)
	assert.Equal(t, 1, p.CurrentLevel)
}

func TestConfiguredXP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"low": 200})

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Tiny", Priority: models.PriorityLow})
	require.NoError(t, err)
	_, err = f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)

	p, err := f.progress.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), p.TotalXP)
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, int64(100), p.CurrentXP)
	assert.Equal(t, int64(400), p.XPToNextLevel)
	assert.Equal(t, 25, f.progress.XPFor(models.PriorityMedium))
}

func TestCompletingRecurringTaskCreatesNextInstance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	due := time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{
		Title:              "Water plants",
		Priority:           models.PriorityLow,
		DueDate:            &due,
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
		OrderIndex:         ptr(2),
	})
	require.NoError(t, err)

	_, err = f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)

	tasks, err := f.tasks.ListTasks(ctx, &models.TaskFilter{Completed: ptr(false)})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	next := tasks[0]
	assert.NotEqual(t, task.Id, next.Id)
	assert.Equal(t, "Water plants", next.Title)
	assert.Equal(t, due.AddDate(0, 0, 7), *next.DueDate)
	assert.Equal(t, task.Id, *next.Recurrence.ParentID)
	assert.Equal(t, models.RecurrenceWeekly, next.Recurrence.Type)
	assert.Equal(t, 2, next.OrderIndex)

	// Un-completing does not remove the generated instance.
	_, err = f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)
	all, err := f.tasks.ListTasks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	complete := func() {
		task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "daily", Priority: models.PriorityMedium})
		require.NoError(t, err)
		_, err = f.tasks.ToggleComplete(ctx, task.Id)
		require.NoError(t, err)
	}

	complete()
	f.clock.advance(24 * time.Hour)
	complete()
	complete()

	p, err := f.progress.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak)
	assert.Equal(t, int64(75), p.TotalXP)

	f.clock.advance(72 * time.Hour)
	complete()
	p, err = f.progress.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak)
}

func TestGetProgressCreatesDefaultRow(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.progress.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultProgressID, p.Id)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, int64(100), p.XPToNextLevel)
}

func TestDeleteProjectDetachesTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	project, err := f.projects.CreateProject(ctx, models.CreateProjectInput{Name: " Home "})
	require.NoError(t, err)
	assert.Equal(t, "Home", project.Name)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Vacuum", Priority: models.PriorityLow, ProjectId: &project.Id})
	require.NoError(t, err)

	require.NoError(t, f.projects.DeleteProject(ctx, project.Id))

	got, err := f.tasks.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectId)

	assert.ErrorIs(t, f.projects.DeleteProject(ctx, project.Id), models.ErrNotFound)
	_, err = f.projects.CreateProject(ctx, models.CreateProjectInput{Name: ""})
	assert.True(t, models.IsValidation(err))
}

func TestTagsOnTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	tag, err := f.tags.CreateTag(ctx, models.CreateTagInput{Name: "errand"})
	require.NoError(t, err)
	_, err = f.tags.CreateTag(ctx, models.CreateTagInput{Name: "errand"})
	assert.True(t, models.IsValidation(err))

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Post office", Priority: models.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, f.tags.AddTagToTask(ctx, task.Id, tag.Id))
	assert.ErrorIs(t, f.tags.AddTagToTask(ctx, "nope", tag.Id), models.ErrNotFound)
	assert.ErrorIs(t, f.tags.AddTagToTask(ctx, task.Id, "nope"), models.ErrNotFound)

	tags, err := f.tags.ListTaskTags(ctx, task.Id)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "errand", tags[0].Name)

	tagged, err := f.tasks.ListTasks(ctx, &models.TaskFilter{TagId: tag.Id})
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	require.NoError(t, f.tags.RemoveTagFromTask(ctx, task.Id, tag.Id))
	require.NoError(t, f.tags.DeleteTag(ctx, tag.Id))
	all, err := f.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
