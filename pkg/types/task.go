package types

import (
	"slices"
	"strings"
	"time"
)

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var validTaskStatuses = map[string]bool{
	TaskStatusTodo:       true,
	TaskStatusInProgress: true,
	TaskStatusDone:       true,
}

var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// Task is a unit of project work. Tasks are the nodes of the dependency
// graph, the children of todo links, and the parents of subtasks.
type Task struct {
	TaskID      string    `json:"task_id"`
	TenantID    string    `json:"tenant_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Assignees   []string  `json:"assignees"`
	Tags        []string  `json:"tags"`
	ProjectID   string    `json:"project_id"`
	MilestoneID *string   `json:"milestone_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields a task must carry before it is persisted.
// Empty status and priority are accepted and filled with defaults by
// ApplyDefaults.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(t.ProjectID) == "" {
		return ErrInvalidProject
	}
	if t.Status != "" && !validTaskStatuses[t.Status] {
		return ErrInvalidStatus
	}
	if t.Priority != "" && !validPriorities[t.Priority] {
		return ErrInvalidPriority
	}
	return nil
}

// ApplyDefaults fills unset status and priority and normalizes the
// assignee and tag sets.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.Assignees = normalizeSet(t.Assignees)
	t.Tags = normalizeSet(t.Tags)
}

// SetStatus sets the task status. Returns ErrInvalidStatus if the status is
// not recognized. Idempotent.
func (t *Task) SetStatus(status string) error {
	if !validTaskStatuses[status] {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsDone reports whether the task is finished.
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// normalizeSet trims, drops blanks and duplicates, and sorts. The result is
// never nil so that JSON encodes an empty array.
func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
