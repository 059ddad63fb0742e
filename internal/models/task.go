package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	ParentID *string        `json:"parent_id,omitempty"`
}

func (r Recurrence) Repeats() bool {
	return r.Type != "" && r.Type != RecurrenceNone
}

// Task is the canonical record owned by the backend. ID, CreatedAt,
// UpdatedAt and CompletedAt are assigned there and never by a client.
type Task struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProjectId   *string    `json:"project_id,omitempty"`
	OrderIndex  int        `json:"order_index"`
	Recurrence  Recurrence `json:"recurrence"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	c.Description = cloneString(t.Description)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DueDate = cloneTime(t.DueDate)
	c.ProjectId = cloneString(t.ProjectId)
	c.Recurrence.ParentID = cloneString(t.Recurrence.ParentID)
	return c
}

// TaskFields holds every mutable field of a Task. Adding a field to Task
// that should survive undo means adding it here, to Fields, and to the two
// input conversions below.
type TaskFields struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
	ProjectId   *string
	OrderIndex  int
	Recurrence  Recurrence
}

func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: cloneString(t.Description),
		Completed:   t.Completed,
		DueDate:     cloneTime(t.DueDate),
		Priority:    t.Priority,
		ProjectId:   cloneString(t.ProjectId),
		OrderIndex:  t.OrderIndex,
		Recurrence: Recurrence{
			Type:     t.Recurrence.Type,
			Interval: t.Recurrence.Interval,
			ParentID: cloneString(t.Recurrence.ParentID),
		},
	}
}

// CreateInput rebuilds a creation payload carrying the same field values.
func (f TaskFields) CreateInput() CreateTaskInput {
	completed := f.Completed
	order := f.OrderIndex
	return CreateTaskInput{
		Title:              f.Title,
		Description:        cloneString(f.Description),
		DueDate:            cloneTime(f.DueDate),
		Priority:           f.Priority,
		ProjectId:          cloneString(f.ProjectId),
		Completed:          &completed,
		OrderIndex:         &order,
		RecurrenceType:     f.Recurrence.Type,
		RecurrenceInterval: f.Recurrence.Interval,
		RecurrenceParentID: cloneString(f.Recurrence.ParentID),
	}
}

// UpdateInput rebuilds a patch that sets every mutable field, using the
// clearing conventions of UpdateTaskInput for absent optional values.
func (f TaskFields) UpdateInput() UpdateTaskInput {
	title := f.Title
	description := valueOrEmpty(f.Description)
	completed := f.Completed
	priority := f.Priority
	project := valueOrEmpty(f.ProjectId)
	order := f.OrderIndex
	recurrenceType := f.Recurrence.Type
	interval := f.Recurrence.Interval
	parent := valueOrEmpty(f.Recurrence.ParentID)

	due := time.Time{}
	if f.DueDate != nil {
		due = *f.DueDate
	}

	return UpdateTaskInput{
		Title:              &title,
		Description:        &description,
		Completed:          &completed,
		DueDate:            &due,
		Priority:           &priority,
		ProjectId:          &project,
		OrderIndex:         &order,
		RecurrenceType:     &recurrenceType,
		RecurrenceInterval: &interval,
		RecurrenceParentID: &parent,
	}
}

type CreateTaskInput struct {
	Title              string         `json:"title"`
	Description        *string        `json:"description,omitempty"`
	DueDate            *time.Time     `json:"due_date,omitempty"`
	Priority           Priority       `json:"priority"`
	ProjectId          *string        `json:"project_id,omitempty"`
	Completed          *bool          `json:"completed,omitempty"`
	OrderIndex         *int           `json:"order_index,omitempty"`
	RecurrenceType     RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceInterval int            `json:"recurrence_interval,omitempty"`
	RecurrenceParentID *string        `json:"recurrence_parent_id,omitempty"`
}

// Fields returns the values a task created from in starts with.
func (in CreateTaskInput) Fields() TaskFields {
	f := TaskFields{
		Title:       in.Title,
		Description: cloneString(in.Description),
		DueDate:     cloneTime(in.DueDate),
		Priority:    in.Priority,
		ProjectId:   cloneString(in.ProjectId),
		Recurrence: Recurrence{
			Type:     in.RecurrenceType,
			Interval: in.RecurrenceInterval,
			ParentID: cloneString(in.RecurrenceParentID),
		},
	}
	if in.Completed != nil {
		f.Completed = *in.Completed
	}
	if in.OrderIndex != nil {
		f.OrderIndex = *in.OrderIndex
	}
	return f
}

// UpdateTaskInput is a partial update.
// nil pointer => "no change"
// pointer to "" for optional strings => clear
// pointer to the zero time for DueDate => clear
type UpdateTaskInput struct {
	Title              *string         `json:"title,omitempty"`
	Description        *string         `json:"description,omitempty"`
	Completed          *bool           `json:"completed,omitempty"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	Priority           *Priority       `json:"priority,omitempty"`
	ProjectId          *string         `json:"project_id,omitempty"`
	OrderIndex         *int            `json:"order_index,omitempty"`
	RecurrenceType     *RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceInterval *int            `json:"recurrence_interval,omitempty"`
	RecurrenceParentID *string         `json:"recurrence_parent_id,omitempty"`
}

func (in UpdateTaskInput) Empty() bool {
	return in == UpdateTaskInput{}
}

// Apply writes the non-nil fields of the patch onto t. It does not touch
// Id, CreatedAt, UpdatedAt or CompletedAt.
func (in UpdateTaskInput) Apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = emptyToNil(*in.Description)
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			t.DueDate = nil
		} else {
			d := *in.DueDate
			t.DueDate = &d
		}
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.ProjectId != nil {
		t.ProjectId = emptyToNil(*in.ProjectId)
	}
	if in.OrderIndex != nil {
		t.OrderIndex = *in.OrderIndex
	}
	if in.RecurrenceType != nil {
		t.Recurrence.Type = *in.RecurrenceType
	}
	if in.RecurrenceInterval != nil {
		t.Recurrence.Interval = *in.RecurrenceInterval
	}
	if in.RecurrenceParentID != nil {
		t.Recurrence.ParentID = emptyToNil(*in.RecurrenceParentID)
	}
}

type TaskFilter struct {
	ProjectId *string    `json:"project_id,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	DueBefore *time.Time `json:"due_before,omitempty"`
	DueAfter  *time.Time `json:"due_after,omitempty"`
	Search    string     `json:"search,omitempty"`
	TagId     string     `json:"tag_id,omitempty"`
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
