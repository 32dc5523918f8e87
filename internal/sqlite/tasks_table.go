// This file implements the tasks accessors for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const taskColumns = "task_id, tenant_id, title, status, priority, assignees, tags, project_id, milestone_id, created_at, updated_at"

// GetTask retrieves a task of the tenant by ID.
func (t *tx) GetTask(tenantID, taskID string) (*types.Task, error) {
	if taskID == "" {
		return nil, types.ErrNotFound
	}
	row := t.tx.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE tenant_id = ? AND task_id = ?",
		tenantID, taskID,
	)
	task, err := hydrateTask(row)
	if err != nil {
		return nil, notFound(err, "task", taskID)
	}
	return task, nil
}

// ListTasks returns the tenant's tasks in creation order.
func (t *tx) ListTasks(tenantID string, filter types.TaskFilter) ([]*types.Task, error) {
	conditions := []string{"tenant_id = ?"}
	args := []any{tenantID}
	if filter.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	rows, err := t.tx.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE "+strings.Join(conditions, " AND ")+" ORDER BY created_at, rowid",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	results := []*types.Task{}
	for rows.Next() {
		task, err := hydrateTask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		results = append(results, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return results, nil
}

// InsertTask stores a new task. An empty TaskID is replaced with a UUID v7
// and timestamps are set when zero.
func (t *tx) InsertTask(task *types.Task) error {
	if task.TaskID == "" {
		task.TaskID = generateUUID()
	}
	now := t.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	assignees, tags, err := encodeSets(task)
	if err != nil {
		return err
	}

	_, err = t.tx.Exec(
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.TaskID, task.TenantID, task.Title, task.Status, task.Priority, assignees, tags,
		task.ProjectID, nullString(task.MilestoneID), formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// UpdateTask overwrites the mutable fields of an existing task.
func (t *tx) UpdateTask(task *types.Task) error {
	task.UpdatedAt = t.now()
	assignees, tags, err := encodeSets(task)
	if err != nil {
		return err
	}

	res, err := t.tx.Exec(
		`UPDATE tasks SET title = ?, status = ?, priority = ?, assignees = ?, tags = ?,
		 project_id = ?, milestone_id = ?, updated_at = ?
		 WHERE tenant_id = ? AND task_id = ?`,
		task.Title, task.Status, task.Priority, assignees, tags,
		task.ProjectID, nullString(task.MilestoneID), formatTime(task.UpdatedAt),
		task.TenantID, task.TaskID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res)
}

// DeleteTask removes the task row only. Callers delete subtasks, edges and
// links first; the foreign keys reject the delete otherwise.
func (t *tx) DeleteTask(tenantID, taskID string) error {
	res, err := t.tx.Exec("DELETE FROM tasks WHERE tenant_id = ? AND task_id = ?", tenantID, taskID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res)
}

func encodeSets(task *types.Task) (string, string, error) {
	assignees, err := json.Marshal(nonNil(task.Assignees))
	if err != nil {
		return "", "", fmt.Errorf("encoding assignees: %w", err)
	}
	tags, err := json.Marshal(nonNil(task.Tags))
	if err != nil {
		return "", "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(assignees), string(tags), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// hydrateTask converts a row into a *types.Task.
func hydrateTask(row scanner) (*types.Task, error) {
	var (
		task                 types.Task
		assignees, tags      string
		milestone            sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&task.TaskID, &task.TenantID, &task.Title, &task.Status, &task.Priority,
		&assignees, &tags, &task.ProjectID, &milestone, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(assignees), &task.Assignees); err != nil {
		return nil, fmt.Errorf("parsing assignees: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return nil, fmt.Errorf("parsing tags: %w", err)
	}
	task.Assignees = nonNil(task.Assignees)
	task.Tags = nonNil(task.Tags)
	task.MilestoneID = stringPtr(milestone)

	var err error
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &task, nil
}
