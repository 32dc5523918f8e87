// This file implements the dependency edge accessors for the SQLite backend.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const dependencyColumns = "dependency_id, tenant_id, blocking_task_id, blocked_task_id, created_at"

// GetDependency retrieves an edge of the tenant by ID.
func (t *tx) GetDependency(tenantID, dependencyID string) (*types.Dependency, error) {
	if dependencyID == "" {
		return nil, types.ErrNotFound
	}
	row := t.tx.QueryRow(
		"SELECT "+dependencyColumns+" FROM dependencies WHERE tenant_id = ? AND dependency_id = ?",
		tenantID, dependencyID,
	)
	d, err := hydrateDependency(row)
	if err != nil {
		return nil, notFound(err, "dependency", dependencyID)
	}
	return d, nil
}

// FindDependency looks up the edge for an ordered pair.
func (t *tx) FindDependency(tenantID, blockingTaskID, blockedTaskID string) (*types.Dependency, error) {
	row := t.tx.QueryRow(
		"SELECT "+dependencyColumns+" FROM dependencies WHERE tenant_id = ? AND blocking_task_id = ? AND blocked_task_id = ?",
		tenantID, blockingTaskID, blockedTaskID,
	)
	d, err := hydrateDependency(row)
	if err != nil {
		return nil, notFound(err, "dependency", blockingTaskID+"->"+blockedTaskID)
	}
	return d, nil
}

// ListDependencies returns the tenant's whole edge set.
func (t *tx) ListDependencies(tenantID string) ([]*types.Dependency, error) {
	return t.queryDependencies("WHERE tenant_id = ?", tenantID)
}

// DependenciesBlocking returns the edges whose blocked side is the task,
// i.e. the task's blockers.
func (t *tx) DependenciesBlocking(tenantID, blockedTaskID string) ([]*types.Dependency, error) {
	return t.queryDependencies("WHERE tenant_id = ? AND blocked_task_id = ?", tenantID, blockedTaskID)
}

// DependenciesBlockedBy returns the edges whose blocking side is the task.
func (t *tx) DependenciesBlockedBy(tenantID, blockingTaskID string) ([]*types.Dependency, error) {
	return t.queryDependencies("WHERE tenant_id = ? AND blocking_task_id = ?", tenantID, blockingTaskID)
}

// InsertDependency stores a new edge. A unique index violation surfaces as
// ErrDuplicateDependency.
func (t *tx) InsertDependency(d *types.Dependency) error {
	if d.DependencyID == "" {
		d.DependencyID = generateUUID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = t.now()
	}

	_, err := t.tx.Exec(
		"INSERT INTO dependencies ("+dependencyColumns+") VALUES (?, ?, ?, ?, ?)",
		d.DependencyID, d.TenantID, d.BlockingTaskID, d.BlockedTaskID, formatTime(d.CreatedAt),
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("inserting dependency: %w", types.ErrDuplicateDependency)
		}
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

// DeleteDependency removes one edge.
func (t *tx) DeleteDependency(tenantID, dependencyID string) error {
	res, err := t.tx.Exec("DELETE FROM dependencies WHERE tenant_id = ? AND dependency_id = ?", tenantID, dependencyID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return requireAffected(res)
}

// DeleteDependenciesForTask removes every edge touching the task on either
// side and reports how many were removed.
func (t *tx) DeleteDependenciesForTask(tenantID, taskID string) (int64, error) {
	res, err := t.tx.Exec(
		"DELETE FROM dependencies WHERE tenant_id = ? AND (blocking_task_id = ? OR blocked_task_id = ?)",
		tenantID, taskID, taskID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting dependencies of task %s: %w", taskID, err)
	}
	return res.RowsAffected()
}

func (t *tx) queryDependencies(where string, args ...any) ([]*types.Dependency, error) {
	rows, err := t.tx.Query("SELECT "+dependencyColumns+" FROM dependencies "+where+" ORDER BY created_at, rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching dependencies: %w", err)
	}
	defer rows.Close()

	results := []*types.Dependency{}
	for rows.Next() {
		d, err := hydrateDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating dependency: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return results, nil
}

// hydrateDependency converts a row into a *types.Dependency.
func hydrateDependency(row scanner) (*types.Dependency, error) {
	var d types.Dependency
	var createdAt string
	if err := row.Scan(&d.DependencyID, &d.TenantID, &d.BlockingTaskID, &d.BlockedTaskID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	d.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
