package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/taskdesk/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTask(id, title string, order int, created time.Time) *models.Task {
	return &models.Task{
		Id:         id,
		Title:      title,
		Priority:   models.PriorityMedium,
		CreatedAt:  created,
		UpdatedAt:  created,
		OrderIndex: order,
		Recurrence: models.Recurrence{Type: models.RecurrenceNone, Interval: 1},
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB("postgres", "x")
	assert.Error(t, err)
}

func TestTaskCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t))

	due := base.Add(48 * time.Hour)
	task := newTask("t1", "Write tests", 0, base)
	task.Description = ptr("table driven")
	task.DueDate = &due
	task.ProjectId = ptr("p1")
	task.Recurrence = models.Recurrence{Type: models.RecurrenceWeekly, Interval: 2, ParentID: ptr("t0")}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, *task, got)
}

func TestTaskGetMissing(t *testing.T) {
	_, err := NewTaskRepository(newTestDB(t)).GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	tags := NewTagRepository(db)

	a := newTask("a", "Buy milk", 1, base)
	b := newTask("b", "Call mom", 0, base.Add(time.Minute))
	c := newTask("c", "Buy bread", 0, base)
	c.Completed = true
	c.CompletedAt = ptr(base)
	c.ProjectId = ptr("home")
	due := base.Add(24 * time.Hour)
	b.DueDate = &due
	for _, task := range []*models.Task{a, b, c} {
		require.NoError(t, repo.Create(ctx, task))
	}
	require.NoError(t, tags.Create(ctx, &models.Tag{Id: "tag1", Name: "errand", CreatedAt: base}))
	require.NoError(t, tags.AddToTask(ctx, "a", "tag1"))

	ids := func(filter *models.TaskFilter) []string {
		tasks, err := repo.List(ctx, filter)
		require.NoError(t, err)
		out := []string{}
		for _, task := range tasks {
			out = append(out, task.Id)
		}
		return out
	}

	assert.Equal(t, []string{"c", "b", "a"}, ids(nil))
	assert.Equal(t, []string{"c", "a"}, ids(&models.TaskFilter{Search: "buy"}))
	assert.Equal(t, []string{"c"}, ids(&models.TaskFilter{Completed: ptr(true)}))
	assert.Equal(t, []string{"b", "a"}, ids(&models.TaskFilter{Completed: ptr(false)}))
	assert.Equal(t, []string{"c"}, ids(&models.TaskFilter{ProjectId: ptr("home")}))
	assert.Equal(t, []string{"a"}, ids(&models.TaskFilter{TagId: "tag1"}))
	assert.Equal(t, []string{"b"}, ids(&models.TaskFilter{DueBefore: ptr(base.Add(48 * time.Hour))}))
	assert.Equal(t, []string{}, ids(&models.TaskFilter{DueAfter: ptr(base.Add(48 * time.Hour))}))
}

func TestTaskUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	tags := NewTagRepository(db)

	task := newTask("t1", "Draft", 0, base)
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, tags.Create(ctx, &models.Tag{Id: "tag1", Name: "work", CreatedAt: base}))
	require.NoError(t, tags.AddToTask(ctx, "t1", "tag1"))

	task.Title = "Final"
	task.Description = ptr("done")
	task.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, *task))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "done", *got.Description)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	linked, err := tags.ListForTask(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, linked)

	assert.ErrorIs(t, repo.Delete(ctx, "t1"), models.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, *task), models.ErrNotFound)
}

func TestClearProject(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t))

	task := newTask("t1", "Pack", 0, base)
	task.ProjectId = ptr("trip")
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.ClearProject(ctx, "trip", base.Add(time.Hour)))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.ProjectId)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.Project{Id: "p2", Name: "Work", CreatedAt: base, UpdatedAt: base}))
	require.NoError(t, repo.Create(ctx, &models.Project{Id: "p1", Name: "Home", Color: ptr("#0f0"), CreatedAt: base, UpdatedAt: base}))

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Home", projects[0].Name)
	assert.Equal(t, "#0f0", *projects[0].Color)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), models.ErrNotFound)
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	repo := NewTagRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.Tag{Id: "t1", Name: "urgent", CreatedAt: base}))
	assert.Error(t, repo.Create(ctx, &models.Tag{Id: "t2", Name: "urgent", CreatedAt: base}))

	exists, err := repo.ExistsByName(ctx, "urgent")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "urgent", got.Name)

	require.NoError(t, repo.AddToTask(ctx, "task1", "t1"))
	require.NoError(t, repo.AddToTask(ctx, "task1", "t1"))
	linked, err := repo.ListForTask(ctx, "task1")
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	require.NoError(t, repo.RemoveFromTask(ctx, "task1", "t1"))
	assert.ErrorIs(t, repo.RemoveFromTask(ctx, "task1", "t1"), models.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestDB(t))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	p := models.UserProgress{Id: DefaultProgressID, TotalXP: 40, CurrentLevel: 1, CurrentStreak: 1, LongestStreak: 1, LastCompletionDate: ptr(base), CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Save(ctx, p))
	p.TotalXP = 90
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90), got.TotalXP)
	assert.Equal(t, base, *got.LastCompletionDate)

	taskID := "task1"
	require.NoError(t, repo.AddXPEntry(ctx, models.XPEntry{Id: "x1", Amount: 10, Source: models.XPSourceTaskCompletion, TaskId: &taskID, CreatedAt: base}))
	require.NoError(t, repo.AddXPEntry(ctx, models.XPEntry{Id: "x2", Amount: 50, Source: models.XPSourceTaskCompletion, TaskId: &taskID, CreatedAt: base.Add(time.Minute)}))

	latest, err := repo.LatestXPEntryForTask(ctx, taskID, models.XPSourceTaskCompletion)
	require.NoError(t, err)
	assert.Equal(t, "x2", latest.Id)

	require.NoError(t, repo.DeleteXPEntry(ctx, "x2"))
	latest, err = repo.LatestXPEntryForTask(ctx, taskID, models.XPSourceTaskCompletion)
	require.NoError(t, err)
	assert.Equal(t, "x1", latest.Id)

	_, err = repo.LatestXPEntryForTask(ctx, "other", models.XPSourceTaskCompletion)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubtasksFollowTheirTask(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	subtasks := NewSubtaskRepository(db)

	require.NoError(t, tasks.Create(ctx, newTask("t1", "Trip", 0, base)))
	require.NoError(t, subtasks.Create(ctx, models.Subtask{Id: "s1", TaskId: "t1", Title: "Passport"}))
	require.NoError(t, subtasks.Create(ctx, models.Subtask{Id: "s2", TaskId: "t1", Title: "Tickets"}))

	require.NoError(t, subtasks.Update(ctx, models.Subtask{Id: "s2", TaskId: "t1", Title: "Train tickets", Completed: true}))
	got, err := subtasks.GetByID(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, models.Subtask{Id: "s2", TaskId: "t1", Title: "Train tickets", Completed: true}, got)

	list, err := subtasks.ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s1", list[0].Id)

	assert.ErrorIs(t, subtasks.Update(ctx, models.Subtask{Id: "nope"}), models.ErrNotFound)

	require.NoError(t, tasks.Delete(ctx, "t1"))
	list, err = subtasks.ListByTask(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = subtasks.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTemplateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTemplateRepository(newTestDB(t))

	tmpl := models.TaskTemplate{
		Id:             "tp1",
		Name:           "Invoice",
		Title:          "Send invoice",
		Description:    ptr("net 30"),
		Priority:       models.PriorityHigh,
		ProjectId:      ptr("p1"),
		RecurrenceType: models.RecurrenceMonthly,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	require.NoError(t, repo.Create(ctx, tmpl))
	got, err := repo.GetByID(ctx, "tp1")
	require.NoError(t, err)
	assert.Equal(t, tmpl, got)

	tmpl.Description = nil
	tmpl.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, tmpl))
	got, err = repo.GetByID(ctx, "tp1")
	require.NoError(t, err)
	assert.Equal(t, tmpl, got)

	require.NoError(t, repo.Delete(ctx, "tp1"))
	assert.ErrorIs(t, repo.Delete(ctx, "tp1"), models.ErrNotFound)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPomodoroStatsRespectRange(t *testing.T) {
	ctx := context.Background()
	repo := NewPomodoroRepository(newTestDB(t))

	for i, day := range []int{1, 2, 3} {
		end := time.Date(2024, 5, day, 10, 25, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, models.PomodoroSession{
			Id:              string(rune('a' + i)),
			StartedAt:       end.Add(-25 * time.Minute),
			CompletedAt:     end,
			DurationSeconds: 1500,
			Mode:            models.PomodoroFocus,
			WasCompleted:    true,
			CreatedAt:       end,
		}))
	}

	from := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 2, 23, 59, 59, 0, time.UTC)
	stats, err := repo.Stats(ctx, models.StatsRange{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSessions)
	assert.Equal(t, int64(25), stats.TotalDurationMinutes)

	empty, err := repo.Stats(ctx, models.StatsRange{From: &to, To: &from})
	require.NoError(t, err)
	assert.Zero(t, empty.TotalSessions)
	assert.Empty(t, empty.SessionsByMode)

	daily, err := repo.Daily(ctx, models.StatsRange{From: &from})
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-05-02", daily[0].Date)
	assert.Equal(t, "2024-05-03", daily[1].Date)
}

func TestPomodoroStreakUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewPomodoroRepository(newTestDB(t))

	_, err := repo.GetStreak(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveStreak(ctx, models.PomodoroStreak{CurrentStreak: 1, LongestStreak: 1, LastSessionDate: &day}, base))
	require.NoError(t, repo.SaveStreak(ctx, models.PomodoroStreak{CurrentStreak: 2, LongestStreak: 4, LastSessionDate: &day}, base))

	got, err := repo.GetStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PomodoroStreak{CurrentStreak: 2, LongestStreak: 4, LastSessionDate: &day}, got)
}

func TestBadgesAreUniquePerType(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgeRepository(newTestDB(t))

	first := models.Badge{Id: "b1", Type: models.BadgeFirstTask, EarnedAt: base, Metadata: map[string]int{"milestone": 1}}
	require.NoError(t, repo.Create(ctx, first))
	assert.Error(t, repo.Create(ctx, models.Badge{Id: "b2", Type: models.BadgeFirstTask, EarnedAt: base}))

	level := models.Badge{Id: "b3", Type: models.BadgeLevel10, EarnedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, level))

	badges, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Badge{level, first}, badges)
}

func TestStatsBusiestWeekdayEmpty(t *testing.T) {
	repo := NewStatsRepository(newTestDB(t))

	_, _, err := repo.BusiestWeekday(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)

	avg, err := repo.AverageCompletionDays(context.Background())
	require.NoError(t, err)
	assert.Zero(t, avg)
}
