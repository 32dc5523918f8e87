// This file implements the task-todo link accessors for the SQLite backend.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const linkColumns = "link_id, tenant_id, todo_id, task_id, created_at"

// LinkForTask returns the single link row of a task.
func (t *tx) LinkForTask(tenantID, taskID string) (*types.TaskTodoLink, error) {
	if taskID == "" {
		return nil, types.ErrNotFound
	}
	row := t.tx.QueryRow(
		"SELECT "+linkColumns+" FROM task_todo_links WHERE tenant_id = ? AND task_id = ?",
		tenantID, taskID,
	)
	l, err := hydrateLink(row)
	if err != nil {
		return nil, notFound(err, "link for task", taskID)
	}
	return l, nil
}

// LinksForTodo returns the links of a todo in creation order.
func (t *tx) LinksForTodo(tenantID, todoID string) ([]*types.TaskTodoLink, error) {
	rows, err := t.tx.Query(
		"SELECT "+linkColumns+" FROM task_todo_links WHERE tenant_id = ? AND todo_id = ? ORDER BY created_at, rowid",
		tenantID, todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	results := []*types.TaskTodoLink{}
	for rows.Next() {
		l, err := hydrateLink(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating link: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return results, nil
}

// InsertLink stores a new link. A second link for the same task violates the
// unique index and surfaces as ErrTaskAlreadyLinked.
func (t *tx) InsertLink(l *types.TaskTodoLink) error {
	if l.LinkID == "" {
		l.LinkID = generateUUID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = t.now()
	}

	_, err := t.tx.Exec(
		"INSERT INTO task_todo_links ("+linkColumns+") VALUES (?, ?, ?, ?, ?)",
		l.LinkID, l.TenantID, l.TodoID, l.TaskID, formatTime(l.CreatedAt),
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("inserting link: %w", types.ErrTaskAlreadyLinked)
		}
		return fmt.Errorf("inserting link: %w", err)
	}
	return nil
}

// DeleteLinkForTask removes the task's link, if any.
func (t *tx) DeleteLinkForTask(tenantID, taskID string) (int64, error) {
	res, err := t.tx.Exec("DELETE FROM task_todo_links WHERE tenant_id = ? AND task_id = ?", tenantID, taskID)
	if err != nil {
		return 0, fmt.Errorf("deleting link of task %s: %w", taskID, err)
	}
	return res.RowsAffected()
}

// DeleteLinksForTodo removes every link pointing at the todo.
func (t *tx) DeleteLinksForTodo(tenantID, todoID string) (int64, error) {
	res, err := t.tx.Exec("DELETE FROM task_todo_links WHERE tenant_id = ? AND todo_id = ?", tenantID, todoID)
	if err != nil {
		return 0, fmt.Errorf("deleting links of todo %s: %w", todoID, err)
	}
	return res.RowsAffected()
}

// hydrateLink converts a row into a *types.TaskTodoLink.
func hydrateLink(row scanner) (*types.TaskTodoLink, error) {
	var l types.TaskTodoLink
	var createdAt string
	if err := row.Scan(&l.LinkID, &l.TenantID, &l.TodoID, &l.TaskID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}
