package models

import "time"

const XPSourceTaskCompletion = "task_completion"

type UserProgress struct {
	Id                 string     `json:"id"`
	TotalXP            int64      `json:"total_xp"`
	CurrentLevel       int        `json:"current_level"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastCompletionDate *time.Time `json:"last_completion_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Derived from TotalXP, not stored.
	CurrentXP     int64 `json:"current_xp"`
	XPToNextLevel int64 `json:"xp_to_next_level"`
}

type XPEntry struct {
	Id        string    `json:"id"`
	Amount    int       `json:"xp_amount"`
	Source    string    `json:"source"`
	TaskId    *string   `json:"task_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GrantXPResult struct {
	LevelUp       bool  `json:"level_up"`
	NewLevel      int   `json:"new_level"`
	TotalXP       int64 `json:"total_xp"`
	CurrentXP     int64 `json:"current_xp"`
	XPToNextLevel int64 `json:"xp_to_next_level"`
}
