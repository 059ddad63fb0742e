package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

func TestSubtasksLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Move house", Priority: models.PriorityHigh})
	require.NoError(t, err)

	first, err := f.subtasks.AddSubtask(ctx, task.Id, models.CreateSubtaskInput{Title: "  Book van "})
	require.NoError(t, err)
	assert.Equal(t, "Book van", first.Title)
	assert.False(t, first.Completed)
	_, err = f.subtasks.AddSubtask(ctx, task.Id, models.CreateSubtaskInput{Title: "Pack books"})
	require.NoError(t, err)

	_, err = f.subtasks.AddSubtask(ctx, task.Id, models.CreateSubtaskInput{Title: " "})
	assert.True(t, models.IsValidation(err))
	_, err = f.subtasks.AddSubtask(ctx, "nope", models.CreateSubtaskInput{Title: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	done, err := f.subtasks.UpdateSubtask(ctx, first.Id, models.UpdateSubtaskInput{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "Book van", done.Title)

	subtasks, err := f.subtasks.ListSubtasks(ctx, task.Id)
	require.NoError(t, err)
	require.Len(t, subtasks, 2)
	assert.Equal(t, "Book van", subtasks[0].Title)
	assert.True(t, subtasks[0].Completed)
	assert.Equal(t, "Pack books", subtasks[1].Title)

	require.NoError(t, f.subtasks.DeleteSubtask(ctx, first.Id))
	assert.ErrorIs(t, f.subtasks.DeleteSubtask(ctx, first.Id), models.ErrNotFound)

	require.NoError(t, f.tasks.DeleteTask(ctx, task.Id))
	_, err = f.subtasks.ListSubtasks(ctx, task.Id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	orphans, err := repository.NewSubtaskRepository(f.db).ListByTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestTemplates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.templates.CreateTemplate(ctx, models.CreateTemplateInput{Name: "x", Title: "x", Priority: "urgent"})
	assert.True(t, models.IsValidation(err))

	weekly, err := f.templates.CreateTemplate(ctx, models.CreateTemplateInput{
		Name:        "Weekly review",
		Title:       "Review the week",
		Description: ptr("inbox zero"),
		Priority:    models.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecurrenceNone, weekly.RecurrenceType)

	f.clock.advance(time.Minute)
	standup, err := f.templates.CreateTemplate(ctx, models.CreateTemplateInput{
		Name:           "Standup",
		Title:          "Write standup notes",
		Priority:       models.PriorityLow,
		RecurrenceType: models.RecurrenceDaily,
	})
	require.NoError(t, err)

	templates, err := f.templates.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Standup", templates[0].Name)
	assert.Equal(t, "Weekly review", templates[1].Name)

	updated, err := f.templates.UpdateTemplate(ctx, weekly.Id, models.UpdateTemplateInput{
		Description: ptr(""),
		Priority:    ptr(models.PriorityHigh),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, f.clock.t, updated.UpdatedAt)

	due := time.Date(2024, 6, 14, 17, 0, 0, 0, time.UTC)
	task, err := f.templates.CreateTaskFromTemplate(ctx, weekly.Id, models.UseTemplateInput{DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Review the week", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Nil(t, task.Description)
	assert.Equal(t, due, *task.DueDate)

	daily, err := f.templates.CreateTaskFromTemplate(ctx, standup.Id, models.UseTemplateInput{})
	require.NoError(t, err)
	assert.Equal(t, models.Recurrence{Type: models.RecurrenceDaily, Interval: 1}, daily.Recurrence)
	assert.Nil(t, daily.DueDate)

	require.NoError(t, f.templates.DeleteTemplate(ctx, weekly.Id))
	_, err = f.templates.GetTemplate(ctx, weekly.Id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.templates.CreateTaskFromTemplate(ctx, weekly.Id, models.UseTemplateInput{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPomodoroSessionsAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	at := func(day, hour, min int) time.Time { return time.Date(2024, 6, day, hour, min, 0, 0, time.UTC) }

	streak, err := f.pomodoro.PomodoroStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PomodoroStreak{}, streak)

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Essay", Priority: models.PriorityMedium})
	require.NoError(t, err)

	first, err := f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		TaskId:       &task.Id,
		StartedAt:    at(10, 9, 0),
		CompletedAt:  at(10, 9, 25),
		Mode:         models.PomodoroFocus,
		WasCompleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, first.DurationSeconds)
	assert.NotEmpty(t, first.Id)

	_, err = f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		TaskId:          &task.Id,
		StartedAt:       at(10, 14, 0),
		CompletedAt:     at(10, 14, 25),
		DurationSeconds: 1500,
		Mode:            models.PomodoroFocus,
		TaskCompleted:   true,
	})
	require.NoError(t, err)
	_, err = f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		StartedAt:       at(11, 9, 30),
		CompletedAt:     at(11, 9, 35),
		DurationSeconds: 300,
		Mode:            models.PomodoroShortBreak,
		WasCompleted:    true,
	})
	require.NoError(t, err)

	stats, err := f.pomodoro.PomodoroStats(ctx, models.StatsRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSessions)
	assert.Equal(t, int64(55), stats.TotalDurationMinutes)
	assert.Equal(t, int64(2), stats.CompletedSessions)
	assert.InDelta(t, 55.0/3, stats.AverageDurationMinutes, 1e-9)
	assert.Equal(t, []models.ModeStats{
		{Mode: models.PomodoroFocus, Count: 2, TotalDurationMinutes: 50},
		{Mode: models.PomodoroShortBreak, Count: 1, TotalDurationMinutes: 5},
	}, stats.SessionsByMode)

	from := at(11, 0, 0)
	recent, err := f.pomodoro.PomodoroStats(ctx, models.StatsRange{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), recent.TotalSessions)

	daily, err := f.pomodoro.DailyPomodoroStats(ctx, models.StatsRange{})
	require.NoError(t, err)
	assert.Equal(t, []models.DailyPomodoroStats{
		{Date: "2024-06-10", SessionCount: 2, TotalDurationMinutes: 50, CompletedCount: 1},
		{Date: "2024-06-11", SessionCount: 1, TotalDurationMinutes: 5, CompletedCount: 1},
	}, daily)

	focus, err := f.pomodoro.BestFocusTimes(ctx)
	require.NoError(t, err)
	require.Len(t, focus, 2)
	assert.Equal(t, 9, focus[0].Hour)
	assert.InDelta(t, 25.0, focus[0].AverageDurationMinutes, 1e-9)
	assert.InDelta(t, 100.0, focus[0].CompletionRate, 1e-9)
	assert.Equal(t, 14, focus[1].Hour)
	assert.InDelta(t, 0.0, focus[1].CompletionRate, 1e-9)

	rates, err := f.pomodoro.TaskPomodoroRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, task.Id, rates[0].TaskId)
	assert.Equal(t, "Essay", rates[0].TaskTitle)
	assert.Equal(t, int64(2), rates[0].PomodoroCount)
	assert.InDelta(t, 50.0, rates[0].CompletionRate, 1e-9)

	streak, err = f.pomodoro.PomodoroStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
	require.NotNil(t, streak.LastSessionDate)
	assert.Equal(t, at(11, 0, 0), *streak.LastSessionDate)

	// A backdated session is stored but leaves the streak alone.
	_, err = f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		StartedAt:   at(1, 9, 0),
		CompletedAt: at(1, 9, 25),
		Mode:        models.PomodoroFocus,
	})
	require.NoError(t, err)
	streak, err = f.pomodoro.PomodoroStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, at(11, 0, 0), *streak.LastSessionDate)
}

func TestLogPomodoroValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	_, err := f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		StartedAt: start, CompletedAt: start.Add(time.Minute), Mode: "nap",
	})
	assert.True(t, models.IsValidation(err))

	_, err = f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		StartedAt: start, CompletedAt: start.Add(-time.Minute), Mode: models.PomodoroFocus,
	})
	assert.True(t, models.IsValidation(err))

	_, err = f.pomodoro.LogPomodoro(ctx, models.LogPomodoroInput{
		TaskId: ptr("ghost"), StartedAt: start, CompletedAt: start.Add(time.Minute), Mode: models.PomodoroFocus,
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStatsSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	project, err := f.projects.CreateProject(ctx, models.CreateProjectInput{Name: "Work"})
	require.NoError(t, err)

	create := func(title string, priority models.Priority, projectID *string) models.Task {
		task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: title, Priority: priority, ProjectId: projectID})
		require.NoError(t, err)
		return task
	}
	report := create("Report", models.PriorityHigh, &project.Id)
	errand := create("Errand", models.PriorityLow, nil)
	create("Slides", models.PriorityMedium, &project.Id)

	// 2024-06-10 is a Monday.
	_, err = f.tasks.ToggleComplete(ctx, report.Id)
	require.NoError(t, err)
	f.clock.advance(24 * time.Hour)
	_, err = f.tasks.ToggleComplete(ctx, errand.Id)
	require.NoError(t, err)

	summary, err := f.stats.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Days)
	assert.Equal(t, []models.DailyCount{
		{Date: "2024-06-10", Count: 1},
		{Date: "2024-06-11", Count: 1},
	}, summary.Completions)
	assert.Equal(t, []models.PriorityCount{
		{Priority: models.PriorityHigh, Count: 1},
		{Priority: models.PriorityMedium, Count: 1},
		{Priority: models.PriorityLow, Count: 1},
	}, summary.Priorities)

	require.Len(t, summary.Projects, 2)
	assert.Equal(t, "Work", *summary.Projects[0].ProjectName)
	assert.Equal(t, int64(2), summary.Projects[0].TotalTasks)
	assert.Equal(t, int64(1), summary.Projects[0].CompletedTasks)
	assert.InDelta(t, 50.0, summary.Projects[0].CompletionRate, 1e-9)
	assert.Nil(t, summary.Projects[1].ProjectId)
	assert.InDelta(t, 100.0, summary.Projects[1].CompletionRate, 1e-9)

	require.Len(t, summary.Trend, 2)
	assert.InDelta(t, 100.0/3, summary.Trend[0].CompletionRate, 1e-9)
	assert.InDelta(t, 100.0/3, summary.Trend[1].CompletionRate, 1e-9)

	require.NotNil(t, summary.MostProductiveDay)
	assert.Equal(t, "Monday", summary.MostProductiveDay.Weekday)
	assert.InDelta(t, 0.5, summary.AverageCompletionDays, 1e-9)

	// The window starts at the beginning of the oldest day.
	narrow, err := f.stats.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.DailyCount{{Date: "2024-06-11", Count: 1}}, narrow.Completions)

	defaulted, err := f.stats.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultStatsDays, defaulted.Days)

	_, err = f.stats.Stats(ctx, -1)
	assert.True(t, models.IsValidation(err))
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	f := newFixture(t, nil)

	summary, err := f.stats.Stats(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, summary.Completions)
	assert.Empty(t, summary.Priorities)
	assert.Nil(t, summary.MostProductiveDay)
	assert.Zero(t, summary.AverageCompletionDays)
}

func TestBadgesAwardedOnCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	badges, err := f.badges.ListBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, badges)

	for day := range 7 {
		task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "daily", Priority: models.PriorityLow})
		require.NoError(t, err)
		_, err = f.tasks.ToggleComplete(ctx, task.Id)
		require.NoError(t, err)
		if day < 6 {
			f.clock.advance(24 * time.Hour)
		}
	}

	badges, err = f.badges.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, models.BadgeWeekWarrior, badges[0].Type)
	assert.Equal(t, map[string]int{"streak": 7}, badges[0].Metadata)
	assert.Equal(t, models.BadgeFirstTask, badges[1].Type)
	assert.Equal(t, map[string]int{"milestone": 1}, badges[1].Metadata)

	again, err := f.badges.CheckBadges(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestLevelBadge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"high": 10000})

	task, err := f.tasks.CreateTask(ctx, models.CreateTaskInput{Title: "Launch", Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = f.tasks.ToggleComplete(ctx, task.Id)
	require.NoError(t, err)

	badges, err := f.badges.ListBadges(ctx)
	require.NoError(t, err)
	kinds := make([]models.BadgeType, 0, len(badges))
	for _, b := range badges {
		kinds = append(kinds, b.Type)
	}
	assert.ElementsMatch(t, []models.BadgeType{models.BadgeFirstTask, models.BadgeLevel10}, kinds)
}

func TestAdvancePomodoroStreakIgnoresOlderDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	s := AdvancePomodoroStreak(models.PomodoroStreak{}, day(5))
	s = AdvancePomodoroStreak(s, day(6))
	assert.Equal(t, 2, s.CurrentStreak)

	s = AdvancePomodoroStreak(s, day(2))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), *s.LastSessionDate)
}
