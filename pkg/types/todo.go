package types

import (
	"strings"
	"time"
)

// Todo statuses.
const (
	TodoStatusTodo = "todo"
	TodoStatusDone = "done"
)

// ScheduledDateLayout is the wire format of Todo.ScheduledDate.
const ScheduledDateLayout = "2006-01-02"

// Todo is a personal item on the owner's day plan. Todos are not owned by a
// project; tasks attach to them through TaskTodoLink rows.
type Todo struct {
	TodoID        string    `json:"todo_id"`
	TenantID      string    `json:"tenant_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	ScheduledDate *string   `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks title, status and the scheduled date format.
func (t *Todo) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrInvalidTitle
	}
	if t.Status != "" && t.Status != TodoStatusTodo && t.Status != TodoStatusDone {
		return ErrInvalidStatus
	}
	if t.ScheduledDate != nil {
		if _, err := time.Parse(ScheduledDateLayout, *t.ScheduledDate); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// SetStatus marks the todo open or done.
func (t *Todo) SetStatus(status string) error {
	if status != TodoStatusTodo && status != TodoStatusDone {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}
