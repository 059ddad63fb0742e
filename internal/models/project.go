package models

import "time"

type Project struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProjectInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type Tag struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTagInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}
