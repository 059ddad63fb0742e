package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/TWRT/taskdesk/internal/models"
)

type formatter struct {
	dateFormat string
	now        func() time.Time
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func (f formatter) task(t models.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-8s %-6s %s", box, shortID(t.Id), t.Priority, t.Title)
	if t.DueDate != nil {
		fmt.Fprintf(&b, "  due %s (%s)", f.date(*t.DueDate), f.relative(*t.DueDate))
	}
	if t.Recurrence.Repeats() {
		fmt.Fprintf(&b, "  every %d %s", t.Recurrence.Interval, t.Recurrence.Type)
	}
	return b.String()
}

func (f formatter) date(t time.Time) string {
	layout := f.dateFormat
	if layout == "" {
		layout = "%Y-%m-%d"
	}
	return strftime.Format(layout, t.Local())
}

func (f formatter) relative(t time.Time) string {
	return humanize.RelTime(t, f.now(), "ago", "from now")
}

func (f formatter) tasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, f.task(t))
	}
}

func (f formatter) progress(w io.Writer, p models.UserProgress) {
	fmt.Fprintf(w, "Level %d  %s XP total  (%d/%d to next level)\n",
		p.CurrentLevel, humanize.Comma(p.TotalXP), p.CurrentXP, p.XPToNextLevel)
	fmt.Fprintf(w, "Streak %d day(s), best %d\n", p.CurrentStreak, p.LongestStreak)
	if p.LastCompletionDate != nil {
		fmt.Fprintf(w, "Last completion %s\n", f.date(*p.LastCompletionDate))
	}
}

func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseDue accepts a calendar date in local time or an RFC 3339 instant.
func parseDue(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("due date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// resolveID matches ref against full ids first, then unique prefixes.
func resolveID(tasks []models.Task, ref string) (string, error) {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.Id
	}
	return matchID("task", ids, ref)
}

func matchID(kind string, ids []string, ref string) (string, error) {
	var match string
	for _, id := range ids {
		if id == ref {
			return ref, nil
		}
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s id %q is ambiguous", kind, ref)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%s %s: %w", kind, ref, models.ErrNotFound)
	}
	return match, nil
}

func (f formatter) subtasks(w io.Writer, subtasks []models.Subtask) {
	if len(subtasks) == 0 {
		fmt.Fprintln(w, "No subtasks.")
		return
	}
	for _, s := range subtasks {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %-8s %s\n", box, shortID(s.Id), s.Title)
	}
}

func (f formatter) templates(w io.Writer, templates []models.TaskTemplate) {
	if len(templates) == 0 {
		fmt.Fprintln(w, "No templates.")
		return
	}
	for _, t := range templates {
		fmt.Fprintf(w, "%-8s  %-16s %-6s %s\n", shortID(t.Id), t.Name, t.Priority, t.Title)
	}
}

func (f formatter) pomodoro(w io.Writer, stats models.PomodoroStats, streak models.PomodoroStreak, focus []models.FocusTime) {
	fmt.Fprintf(w, "%s session(s), %d completed, %s total (avg %.1f min)\n",
		humanize.Comma(stats.TotalSessions), stats.CompletedSessions,
		minutes(stats.TotalDurationMinutes), stats.AverageDurationMinutes)
	for _, m := range stats.SessionsByMode {
		fmt.Fprintf(w, "  %-10s %4d  %s\n", m.Mode, m.Count, minutes(m.TotalDurationMinutes))
	}
	fmt.Fprintf(w, "Focus streak %d day(s), best %d\n", streak.CurrentStreak, streak.LongestStreak)
	for i, h := range focus {
		if i == 3 {
			break
		}
		fmt.Fprintf(w, "  %02d:00  %d session(s), %.0f%% completed\n", h.Hour, h.SessionCount, h.CompletionRate)
	}
}

func (f formatter) stats(w io.Writer, s models.StatsSummary) {
	var total int64
	for _, c := range s.Completions {
		total += c.Count
	}
	fmt.Fprintf(w, "Completed in the last %d day(s): %s\n", s.Days, humanize.Comma(total))
	for _, c := range s.Completions {
		fmt.Fprintf(w, "  %s  %d\n", c.Date, c.Count)
	}
	for _, p := range s.Priorities {
		fmt.Fprintf(w, "Priority %-6s %d\n", p.Priority, p.Count)
	}
	for _, p := range s.Projects {
		name := "(no project)"
		if p.ProjectName != nil {
			name = *p.ProjectName
		} else if p.ProjectId != nil {
			name = shortID(*p.ProjectId)
		}
		fmt.Fprintf(w, "Project %-16s %d/%d done (%.0f%%)\n", name, p.CompletedTasks, p.TotalTasks, p.CompletionRate)
	}
	if s.MostProductiveDay != nil {
		fmt.Fprintf(w, "Most productive day: %s (%d)\n", s.MostProductiveDay.Weekday, s.MostProductiveDay.Count)
	}
	fmt.Fprintf(w, "Average time to complete: %.1f day(s)\n", s.AverageCompletionDays)
}

func (f formatter) badges(w io.Writer, badges []models.Badge) {
	if len(badges) == 0 {
		fmt.Fprintln(w, "No badges.")
		return
	}
	for _, b := range badges {
		fmt.Fprintf(w, "%-16s earned %s\n", b.Type, f.relative(b.EarnedAt))
	}
}

func minutes(n int64) string {
	return (time.Duration(n) * time.Minute).String()
}
