// This file implements the todos accessors for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const todoColumns = "todo_id, tenant_id, title, status, scheduled_date, created_at, updated_at"

// GetTodo retrieves a todo of the tenant by ID.
func (t *tx) GetTodo(tenantID, todoID string) (*types.Todo, error) {
	if todoID == "" {
		return nil, types.ErrNotFound
	}
	row := t.tx.QueryRow(
		"SELECT "+todoColumns+" FROM todos WHERE tenant_id = ? AND todo_id = ?",
		tenantID, todoID,
	)
	todo, err := hydrateTodo(row)
	if err != nil {
		return nil, notFound(err, "todo", todoID)
	}
	return todo, nil
}

// ListTodos returns the tenant's todos ordered by scheduled date, undated
// todos last, then creation.
func (t *tx) ListTodos(tenantID string, filter types.TodoFilter) ([]*types.Todo, error) {
	conditions := []string{"tenant_id = ?"}
	args := []any{tenantID}
	if filter.ScheduledDate != "" {
		conditions = append(conditions, "scheduled_date = ?")
		args = append(args, filter.ScheduledDate)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	rows, err := t.tx.Query(
		"SELECT "+todoColumns+" FROM todos WHERE "+strings.Join(conditions, " AND ")+
			" ORDER BY scheduled_date IS NULL, scheduled_date, created_at, rowid",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching todos: %w", err)
	}
	defer rows.Close()

	results := []*types.Todo{}
	for rows.Next() {
		todo, err := hydrateTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating todo: %w", err)
		}
		results = append(results, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return results, nil
}

// InsertTodo stores a new todo, generating its ID when empty.
func (t *tx) InsertTodo(todo *types.Todo) error {
	if todo.TodoID == "" {
		todo.TodoID = generateUUID()
	}
	now := t.now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = now
	}

	_, err := t.tx.Exec(
		"INSERT INTO todos ("+todoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		todo.TodoID, todo.TenantID, todo.Title, todo.Status, nullString(todo.ScheduledDate),
		formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

// UpdateTodo overwrites title, status and scheduled date.
func (t *tx) UpdateTodo(todo *types.Todo) error {
	todo.UpdatedAt = t.now()
	res, err := t.tx.Exec(
		"UPDATE todos SET title = ?, status = ?, scheduled_date = ?, updated_at = ? WHERE tenant_id = ? AND todo_id = ?",
		todo.Title, todo.Status, nullString(todo.ScheduledDate), formatTime(todo.UpdatedAt),
		todo.TenantID, todo.TodoID,
	)
	if err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}
	return requireAffected(res)
}

// DeleteTodo removes the todo row. Link rows must be gone first.
func (t *tx) DeleteTodo(tenantID, todoID string) error {
	res, err := t.tx.Exec("DELETE FROM todos WHERE tenant_id = ? AND todo_id = ?", tenantID, todoID)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	return requireAffected(res)
}

func hydrateTodo(row scanner) (*types.Todo, error) {
	var (
		todo                 types.Todo
		scheduled            sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&todo.TodoID, &todo.TenantID, &todo.Title, &todo.Status, &scheduled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	todo.ScheduledDate = stringPtr(scheduled)

	var err error
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &todo, nil
}
