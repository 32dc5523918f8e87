// This file implements the subtask accessors for the SQLite backend,
// including the grouped progress count used by board views.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const subtaskColumns = "subtask_id, tenant_id, task_id, title, status, position, created_at, updated_at"

// GetSubtask retrieves a subtask of the tenant by ID.
func (t *tx) GetSubtask(tenantID, subtaskID string) (*types.Subtask, error) {
	if subtaskID == "" {
		return nil, types.ErrNotFound
	}
	row := t.tx.QueryRow(
		"SELECT "+subtaskColumns+" FROM subtasks WHERE tenant_id = ? AND subtask_id = ?",
		tenantID, subtaskID,
	)
	s, err := hydrateSubtask(row)
	if err != nil {
		return nil, notFound(err, "subtask", subtaskID)
	}
	return s, nil
}

// ListSubtasks returns a task's subtasks in creation order.
func (t *tx) ListSubtasks(tenantID, taskID string) ([]*types.Subtask, error) {
	rows, err := t.tx.Query(
		"SELECT "+subtaskColumns+" FROM subtasks WHERE tenant_id = ? AND task_id = ? ORDER BY position",
		tenantID, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching subtasks: %w", err)
	}
	defer rows.Close()

	results := []*types.Subtask{}
	for rows.Next() {
		s, err := hydrateSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating subtask: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return results, nil
}

// NextSubtaskPosition returns one past the highest position under the task.
// Positions of deleted subtasks are not reused while a later one exists.
func (t *tx) NextSubtaskPosition(tenantID, taskID string) (int, error) {
	var next int
	err := t.tx.QueryRow(
		"SELECT COALESCE(MAX(position), 0) + 1 FROM subtasks WHERE tenant_id = ? AND task_id = ?",
		tenantID, taskID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading next subtask position: %w", err)
	}
	return next, nil
}

// InsertSubtask stores a new subtask.
func (t *tx) InsertSubtask(s *types.Subtask) error {
	if s.SubtaskID == "" {
		s.SubtaskID = generateUUID()
	}
	now := t.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	_, err := t.tx.Exec(
		"INSERT INTO subtasks ("+subtaskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.SubtaskID, s.TenantID, s.TaskID, s.Title, s.Status, s.Position,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

// UpdateSubtask overwrites title and status. Parent and position are fixed.
func (t *tx) UpdateSubtask(s *types.Subtask) error {
	s.UpdatedAt = t.now()
	res, err := t.tx.Exec(
		"UPDATE subtasks SET title = ?, status = ?, updated_at = ? WHERE tenant_id = ? AND subtask_id = ?",
		s.Title, s.Status, formatTime(s.UpdatedAt), s.TenantID, s.SubtaskID,
	)
	if err != nil {
		return fmt.Errorf("updating subtask: %w", err)
	}
	return requireAffected(res)
}

// DeleteSubtask removes one subtask.
func (t *tx) DeleteSubtask(tenantID, subtaskID string) error {
	res, err := t.tx.Exec("DELETE FROM subtasks WHERE tenant_id = ? AND subtask_id = ?", tenantID, subtaskID)
	if err != nil {
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return requireAffected(res)
}

// DeleteSubtasksForTask removes all subtasks of a task.
func (t *tx) DeleteSubtasksForTask(tenantID, taskID string) (int64, error) {
	res, err := t.tx.Exec("DELETE FROM subtasks WHERE tenant_id = ? AND task_id = ?", tenantID, taskID)
	if err != nil {
		return 0, fmt.Errorf("deleting subtasks of task %s: %w", taskID, err)
	}
	return res.RowsAffected()
}

// CountSubtasks tallies completed and total subtasks for many parents with
// one grouped query per chunk of at most maxInParams ids.
func (t *tx) CountSubtasks(tenantID string, taskIDs []string) (map[string]types.SubtaskCount, error) {
	counts := make(map[string]types.SubtaskCount, len(taskIDs))
	for _, ids := range chunk(taskIDs, maxInParams) {
		args := make([]any, 0, len(ids)+2)
		args = append(args, types.SubtaskStatusDone, tenantID)
		for _, id := range ids {
			args = append(args, id)
		}

		rows, err := t.tx.Query(
			`SELECT task_id, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0), COUNT(*)
			 FROM subtasks WHERE tenant_id = ? AND task_id IN (`+placeholders(len(ids))+`)
			 GROUP BY task_id`,
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("counting subtasks: %w", err)
		}
		for rows.Next() {
			var id string
			var c types.SubtaskCount
			if err := rows.Scan(&id, &c.Completed, &c.Total); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning subtask count: %w", err)
			}
			counts[id] = c
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating subtask counts: %w", err)
		}
	}
	return counts, nil
}

func hydrateSubtask(row scanner) (*types.Subtask, error) {
	var s types.Subtask
	var createdAt, updatedAt string
	if err := row.Scan(&s.SubtaskID, &s.TenantID, &s.TaskID, &s.Title, &s.Status, &s.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
