package types

import "time"

// Dependency is a directed edge of the blocking graph: the blocking task must
// complete before the blocked task. Within a tenant no two edges share the
// same ordered pair and the edge set is acyclic.
type Dependency struct {
	// DependencyID is a UUID v7, generated on creation.
	DependencyID string `json:"dependency_id"`

	TenantID string `json:"tenant_id"`

	// BlockingTaskID is the source of the edge.
	BlockingTaskID string `json:"blocking_task_id"`

	// BlockedTaskID is the target of the edge.
	BlockedTaskID string `json:"blocked_task_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TaskTodoLink attaches a task to a todo. A task appears in at most one link
// row per tenant.
type TaskTodoLink struct {
	LinkID    string    `json:"link_id"`
	TenantID  string    `json:"tenant_id"`
	TodoID    string    `json:"todo_id"`
	TaskID    string    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
