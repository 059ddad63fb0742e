package service

import (
	"math"
	"time"

	"github.com/TWRT/taskdesk/internal/models"
)

var defaultXPByPriority = map[models.Priority]int{
	models.PriorityLow:    10,
	models.PriorityMedium: 25,
	models.PriorityHigh:   50,
}

const fallbackXP = 25

// Level returns floor(sqrt(totalXP/100)) + 1.
func Level(totalXP int64) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalXP)/100.0))) + 1
}

// XPToNextLevel is the size of the XP band for level.
func XPToNextLevel(level int) int64 {
	return int64(level) * 100 * int64(level)
}

// CurrentLevelXP is the XP earned inside the current level band.
func CurrentLevelXP(totalXP int64, level int) int64 {
	if level <= 1 {
		return totalXP
	}
	var spent int64
	for i := 1; i < level; i++ {
		spent += XPToNextLevel(i)
	}
	return totalXP - spent
}

func withDerived(p models.UserProgress) models.UserProgress {
	p.CurrentLevel = Level(p.TotalXP)
	p.CurrentXP = CurrentLevelXP(p.TotalXP, p.CurrentLevel)
	p.XPToNextLevel = XPToNextLevel(p.CurrentLevel)
	return p
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AdvanceStreak records a completion made at `at`. A completion on the day
// after the last one extends the streak, a gap restarts it at 1, and a
// second completion on the same day changes nothing.
func AdvanceStreak(p models.UserProgress, at time.Time) models.UserProgress {
	p.CurrentStreak, p.LongestStreak, p.LastCompletionDate = nextStreak(
		p.CurrentStreak, p.LongestStreak, p.LastCompletionDate, at)
	return p
}

// AdvancePomodoroStreak applies the same day rule to focus sessions.
func AdvancePomodoroStreak(s models.PomodoroStreak, at time.Time) models.PomodoroStreak {
	s.CurrentStreak, s.LongestStreak, s.LastSessionDate = nextStreak(
		s.CurrentStreak, s.LongestStreak, s.LastSessionDate, at)
	return s
}

// nextStreak counts consecutive UTC days with activity. Activity dated
// before the last recorded day leaves everything unchanged.
func nextStreak(current, longest int, last *time.Time, at time.Time) (int, int, *time.Time) {
	today := dayStart(at)

	if last == nil {
		current = 1
	} else {
		prev := dayStart(*last)
		yesterday := today.AddDate(0, 0, -1)
		switch {
		case today.Before(prev):
			return current, longest, last
		case prev.Equal(yesterday):
			current++
		case prev.Before(yesterday):
			current = 1
		}
	}

	return current, max(longest, current), &today
}

// NextDueDate shifts due by the recurrence cadence. Months are 30 days.
func NextDueDate(due *time.Time, r models.Recurrence) *time.Time {
	if due == nil {
		return nil
	}
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	days := 0
	switch r.Type {
	case models.RecurrenceDaily:
		days = interval
	case models.RecurrenceWeekly:
		days = interval * 7
	case models.RecurrenceMonthly:
		days = interval * 30
	}

	next := due.Add(time.Duration(days) * 24 * time.Hour)
	return &next
}
