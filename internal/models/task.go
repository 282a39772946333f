package models

import (
	"time"
)

// TaskStatus represents the normalized status of a task
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusClosed     TaskStatus = "closed"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the known values
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusClosed, TaskStatusDone:
		return true
	}
	return false
}

// Task is the canonical task shape merged from all external sources.
// IDs are namespaced by source ("gh-123", "notion-<page-id>") and are unique
// within a single fetch batch; nothing is persisted between requests.
type Task struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Sources     []string          `json:"sources"`
	SourceIDs   map[string]string `json:"source_ids"`
	Labels      []string          `json:"labels"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Assignee    string            `json:"assignee,omitempty"`
	Status      TaskStatus        `json:"status"`
	// ImportanceScore is derived and recomputed before every sort;
	// it is never read back as stale data.
	ImportanceScore float64           `json:"importance_score"`
	URLs            map[string]string `json:"urls"`
	CreatedAt       *time.Time        `json:"created_at,omitempty"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
}

// SyncStatus reports per-source task counts for a single aggregation pass.
// LastSync is captured at request time and not persisted.
type SyncStatus struct {
	TotalTasksBySource map[string]int `json:"total_tasks_by_source"`
	LastSync           time.Time      `json:"last_sync"`
}

// TaskComparison is the full aggregate response: every task globally ranked,
// the same tasks grouped by source in fetch order, and a sync snapshot.
type TaskComparison struct {
	AllTasks      []Task            `json:"all_tasks"`
	TasksBySource map[string][]Task `json:"tasks_by_source"`
	SyncStatus    SyncStatus        `json:"sync_status"`
}
