package models

import (
	"fmt"
	"time"
)

type PomodoroMode string

const (
	PomodoroFocus      PomodoroMode = "pomodoro"
	PomodoroShortBreak PomodoroMode = "shortBreak"
	PomodoroLongBreak  PomodoroMode = "longBreak"
)

func (m PomodoroMode) Valid() bool {
	switch m {
	case PomodoroFocus, PomodoroShortBreak, PomodoroLongBreak:
		return true
	}
	return false
}

type PomodoroSession struct {
	Id              string       `json:"id"`
	TaskId          *string      `json:"task_id,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     time.Time    `json:"completed_at"`
	DurationSeconds int          `json:"duration_seconds"`
	Mode            PomodoroMode `json:"mode"`
	WasCompleted    bool         `json:"was_completed"`
	TaskCompleted   bool         `json:"task_completed"`
	CreatedAt       time.Time    `json:"created_at"`
}

// LogPomodoroInput records a finished timer. A zero DurationSeconds is
// derived from the start and end instants.
type LogPomodoroInput struct {
	TaskId          *string      `json:"task_id,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     time.Time    `json:"completed_at"`
	DurationSeconds int          `json:"duration_seconds,omitempty"`
	Mode            PomodoroMode `json:"mode"`
	WasCompleted    bool         `json:"was_completed"`
	TaskCompleted   bool         `json:"task_completed"`
}

func (in LogPomodoroInput) Validate() error {
	if !in.Mode.Valid() {
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown value %q", in.Mode)}
	}
	if in.StartedAt.IsZero() || in.CompletedAt.IsZero() {
		return &ValidationError{Field: "started_at", Message: "start and completion times are required"}
	}
	if in.CompletedAt.Before(in.StartedAt) {
		return &ValidationError{Field: "completed_at", Message: "must not be before started_at"}
	}
	if in.DurationSeconds < 0 {
		return &ValidationError{Field: "duration_seconds", Message: "must not be negative"}
	}
	return nil
}

// StatsRange bounds a statistics query by completion time. Nil ends are open.
type StatsRange struct {
	From *time.Time
	To   *time.Time
}

type ModeStats struct {
	Mode                 PomodoroMode `json:"mode"`
	Count                int64        `json:"count"`
	TotalDurationMinutes int64        `json:"total_duration_minutes"`
}

type PomodoroStats struct {
	TotalSessions          int64       `json:"total_sessions"`
	TotalDurationMinutes   int64       `json:"total_duration_minutes"`
	CompletedSessions      int64       `json:"completed_sessions"`
	AverageDurationMinutes float64     `json:"average_duration_minutes"`
	SessionsByMode         []ModeStats `json:"sessions_by_mode"`
}

type DailyPomodoroStats struct {
	Date                 string `json:"date"`
	SessionCount         int64  `json:"session_count"`
	TotalDurationMinutes int64  `json:"total_duration_minutes"`
	CompletedCount       int64  `json:"completed_count"`
}

type FocusTime struct {
	Hour                   int     `json:"hour"`
	SessionCount           int64   `json:"session_count"`
	AverageDurationMinutes float64 `json:"average_duration_minutes"`
	CompletionRate         float64 `json:"completion_rate"`
}

type TaskPomodoroRate struct {
	TaskId         string  `json:"task_id"`
	TaskTitle      string  `json:"task_title"`
	PomodoroCount  int64   `json:"pomodoro_count"`
	CompletionRate float64 `json:"completion_rate"`
}

type PomodoroStreak struct {
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastSessionDate *time.Time `json:"last_session_date,omitempty"`
}
