package types

import "time"

// Subtask statuses.
const (
	SubtaskStatusTodo = "todo"
	SubtaskStatusDone = "done"
)

// Subtask is a checklist item owned by exactly one task. Position records
// creation order within the parent and only grows.
type Subtask struct {
	SubtaskID string    `json:"subtask_id"`
	TenantID  string    `json:"tenant_id"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Toggle flips the subtask between todo and done.
func (s *Subtask) Toggle() {
	if s.Status == SubtaskStatusDone {
		s.Status = SubtaskStatusTodo
	} else {
		s.Status = SubtaskStatusDone
	}
	s.UpdatedAt = time.Now().UTC()
}

// SubtaskCount is the raw per-task tally read from the store.
type SubtaskCount struct {
	Completed int
	Total     int
}

// Progress is the completion summary of a task's subtasks. Percentage is the
// ratio Completed/Total in [0, 1] and is zero when Total is zero.
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewProgress builds a Progress from a count without dividing by zero.
func NewProgress(c SubtaskCount) Progress {
	p := Progress{Completed: c.Completed, Total: c.Total}
	if c.Total > 0 {
		p.Percentage = float64(c.Completed) / float64(c.Total)
	}
	return p
}
