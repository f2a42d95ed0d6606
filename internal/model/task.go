package model

import "time"

// Task statuses derived from percent complete.
const (
	StatusReady      = "ready"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// DefaultOwnerID is reported when no resource could be resolved for a task.
const DefaultOwnerID int64 = -1

// Task is one work-plan task produced from a sheet row. Children are populated
// by tree assembly; a task is owned by exactly one parent or is a root.
type Task struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	ParentID string     `json:"parent_id,omitempty"`
	Start    *time.Time `json:"start,omitempty"`
	Finish   *time.Time `json:"finish,omitempty"`
	Status   string     `json:"status"`
	OwnerID  int64      `json:"owner_id"`
	Actuals  []Actuals  `json:"actuals"`
	Children []*Task    `json:"children,omitempty"`
}

// Actuals carries the effort metrics of a task for one resource, or for the
// unassigned bucket when ResourceID is nil. The accounting identity
// ScheduledEffort = ActualEffort + RemainingEffort holds on every record.
type Actuals struct {
	ResourceID      *int64     `json:"resource_id,omitempty"`
	ScheduledEffort float64    `json:"scheduled_effort"`
	ActualEffort    float64    `json:"actual_effort"`
	RemainingEffort float64    `json:"remaining_effort"`
	PercentComplete float64    `json:"percent_complete"`
	ActualStart     *time.Time `json:"actual_start,omitempty"`
	ActualFinish    *time.Time `json:"actual_finish,omitempty"`
}
