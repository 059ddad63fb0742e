package models

import "time"

type BadgeType string

const (
	BadgeFirstTask     BadgeType = "first_task"
	BadgeTaskMaster100 BadgeType = "task_master_100"
	BadgeWeekWarrior   BadgeType = "week_warrior"
	BadgeLevel10       BadgeType = "level_10"
)

type Badge struct {
	Id       string         `json:"id"`
	Type     BadgeType      `json:"badge_type"`
	EarnedAt time.Time      `json:"earned_at"`
	Metadata map[string]int `json:"metadata,omitempty"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PriorityCount struct {
	Priority Priority `json:"priority"`
	Count    int64    `json:"count"`
}

type ProjectStats struct {
	ProjectId      *string `json:"project_id,omitempty"`
	ProjectName    *string `json:"project_name,omitempty"`
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type DailyRate struct {
	Date           string  `json:"date"`
	CompletionRate float64 `json:"completion_rate"`
}

type WeekdayCount struct {
	Weekday string `json:"day_of_week"`
	Count   int64  `json:"count"`
}

// StatsSummary aggregates completion statistics over the last Days days.
// Dates are UTC calendar days formatted as YYYY-MM-DD.
type StatsSummary struct {
	Days                  int             `json:"days"`
	Completions           []DailyCount    `json:"completions"`
	Priorities            []PriorityCount `json:"priorities"`
	Projects              []ProjectStats  `json:"projects"`
	Trend                 []DailyRate     `json:"trend"`
	MostProductiveDay     *WeekdayCount   `json:"most_productive_day,omitempty"`
	AverageCompletionDays float64         `json:"average_completion_days"`
}
