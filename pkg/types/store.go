package types

import (
	"context"
	"errors"
)

// Store is the backend-agnostic storage handle. Callers attach to a backend,
// run closures inside transactions, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, Update and View return ErrStoreDetached.
	Detach() error

	// Update runs fn inside one write transaction. The transaction commits
	// when fn returns nil and rolls back otherwise. A backend may run fn more
	// than once when the transaction loses a write conflict, so fn must not
	// have side effects outside tx.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn inside one read transaction that is always rolled back.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// TaskFilter narrows ListTasks. Empty fields match everything.
type TaskFilter struct {
	ProjectID string
	Status    string
}

// TodoFilter narrows ListTodos. Empty fields match everything.
type TodoFilter struct {
	ScheduledDate string
	Status        string
}

// Tx is the set of tenant-scoped row operations available inside a store
// transaction. Every read takes the tenant id and treats rows of other
// tenants as absent. Lookups of a single row return ErrNotFound when nothing
// matches.
type Tx interface {
	GetTask(tenantID, taskID string) (*Task, error)
	ListTasks(tenantID string, filter TaskFilter) ([]*Task, error)
	InsertTask(t *Task) error
	UpdateTask(t *Task) error
	DeleteTask(tenantID, taskID string) error

	GetTodo(tenantID, todoID string) (*Todo, error)
	ListTodos(tenantID string, filter TodoFilter) ([]*Todo, error)
	InsertTodo(t *Todo) error
	UpdateTodo(t *Todo) error
	DeleteTodo(tenantID, todoID string) error

	GetDependency(tenantID, dependencyID string) (*Dependency, error)
	FindDependency(tenantID, blockingTaskID, blockedTaskID string) (*Dependency, error)
	ListDependencies(tenantID string) ([]*Dependency, error)
	DependenciesBlocking(tenantID, blockedTaskID string) ([]*Dependency, error)
	DependenciesBlockedBy(tenantID, blockingTaskID string) ([]*Dependency, error)
	InsertDependency(d *Dependency) error
	DeleteDependency(tenantID, dependencyID string) error
	DeleteDependenciesForTask(tenantID, taskID string) (int64, error)

	LinkForTask(tenantID, taskID string) (*TaskTodoLink, error)
	LinksForTodo(tenantID, todoID string) ([]*TaskTodoLink, error)
	InsertLink(l *TaskTodoLink) error
	DeleteLinkForTask(tenantID, taskID string) (int64, error)
	DeleteLinksForTodo(tenantID, todoID string) (int64, error)

	GetSubtask(tenantID, subtaskID string) (*Subtask, error)
	ListSubtasks(tenantID, taskID string) ([]*Subtask, error)
	NextSubtaskPosition(tenantID, taskID string) (int, error)
	InsertSubtask(s *Subtask) error
	UpdateSubtask(s *Subtask) error
	DeleteSubtask(tenantID, subtaskID string) error
	DeleteSubtasksForTask(tenantID, taskID string) (int64, error)

	// CountSubtasks returns completed/total tallies for every task id that
	// has at least one subtask. Ids without subtasks are absent from the map.
	CountSubtasks(tenantID string, taskIDs []string) (map[string]SubtaskCount, error)
}

// TenantResolver is the tenant guard every operation consults first. It
// returns ErrUnauthorized when no identity can be resolved.
type TenantResolver interface {
	Tenant(ctx context.Context) (string, error)
}
