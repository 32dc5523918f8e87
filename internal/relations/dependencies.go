package relations

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/internal/graph"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Dependencies manages the blocking graph between tasks. Within a tenant the
// edge set never holds a self-edge, a duplicate ordered pair or a cycle.
type Dependencies struct {
	manager
}

// NewDependencies creates a Dependencies manager.
func NewDependencies(store types.Store, tenants types.TenantResolver, logger *log.Logger) *Dependencies {
	return &Dependencies{manager: newManager(store, tenants, logger)}
}

// Create adds the edge blocking -> blocked and returns its id.
//
// Errors: ErrSelfDependency when the ids are equal, ErrNotFound when either
// task is missing from the tenant, ErrDuplicateDependency when the edge
// exists, and a *types.CycleError when blocking is already reachable from
// blocked.
func (m *Dependencies) Create(ctx context.Context, blockingTaskID, blockedTaskID string) (string, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return "", err
	}
	if blockingTaskID == blockedTaskID {
		return "", types.ErrSelfDependency
	}

	var id string
	err = m.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, blockingTaskID); err != nil {
			return err
		}
		if _, err := tx.GetTask(tenantID, blockedTaskID); err != nil {
			return err
		}

		_, err := tx.FindDependency(tenantID, blockingTaskID, blockedTaskID)
		if err == nil {
			return types.ErrDuplicateDependency
		}
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		deps, err := tx.ListDependencies(tenantID)
		if err != nil {
			return err
		}
		if path, cyclic := graph.FromDependencies(deps).WouldCycle(blockingTaskID, blockedTaskID); cyclic {
			return &types.CycleError{
				BlockingTaskID: blockingTaskID,
				BlockedTaskID:  blockedTaskID,
				Path:           path,
			}
		}

		d := &types.Dependency{
			TenantID:       tenantID,
			BlockingTaskID: blockingTaskID,
			BlockedTaskID:  blockedTaskID,
		}
		if err := tx.InsertDependency(d); err != nil {
			return err
		}
		id = d.DependencyID
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("dependency created", "tenant", tenantID, "id", id, "blocking", blockingTaskID, "blocked", blockedTaskID)
	return id, nil
}

// AvailableBlockers returns the tenant tasks that could become blockers of
// taskID without breaking an invariant: everything except the task itself,
// its current blockers and the tasks reachable from it.
func (m *Dependencies) AvailableBlockers(ctx context.Context, taskID string) ([]*types.Task, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var available []*types.Task
	err = m.store.View(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		tasks, err := tx.ListTasks(tenantID, types.TaskFilter{})
		if err != nil {
			return err
		}
		deps, err := tx.ListDependencies(tenantID)
		if err != nil {
			return err
		}

		g := graph.FromDependencies(deps)
		excluded := g.Reachable(taskID)
		excluded[taskID] = true
		for _, blocker := range g.RevAdj[taskID] {
			excluded[blocker] = true
		}

		available = make([]*types.Task, 0, len(tasks))
		for _, t := range tasks {
			if !excluded[t.TaskID] {
				available = append(available, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return available, nil
}

// Remove deletes one edge of the tenant.
func (m *Dependencies) Remove(ctx context.Context, dependencyID string) error {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	err = m.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetDependency(tenantID, dependencyID); err != nil {
			return err
		}
		return tx.DeleteDependency(tenantID, dependencyID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("dependency removed", "tenant", tenantID, "id", dependencyID)
	return nil
}

// Blockers returns the edges whose blocked side is taskID.
func (m *Dependencies) Blockers(ctx context.Context, taskID string) ([]*types.Dependency, error) {
	return m.edges(ctx, taskID, types.Tx.DependenciesBlocking)
}

// Blocking returns the edges whose blocking side is taskID.
func (m *Dependencies) Blocking(ctx context.Context, taskID string) ([]*types.Dependency, error) {
	return m.edges(ctx, taskID, types.Tx.DependenciesBlockedBy)
}

func (m *Dependencies) edges(ctx context.Context, taskID string, query func(types.Tx, string, string) ([]*types.Dependency, error)) ([]*types.Dependency, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var deps []*types.Dependency
	err = m.store.View(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		deps, err = query(tx, tenantID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// Ready returns the tenant's unfinished tasks whose blockers are all done.
func (m *Dependencies) Ready(ctx context.Context) ([]*types.Task, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var ready []*types.Task
	err = m.store.View(ctx, func(tx types.Tx) error {
		tasks, err := tx.ListTasks(tenantID, types.TaskFilter{})
		if err != nil {
			return err
		}
		deps, err := tx.ListDependencies(tenantID)
		if err != nil {
			return err
		}

		done := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			done[t.TaskID] = t.IsDone()
		}
		g := graph.FromDependencies(deps)

		ready = []*types.Task{}
		for _, t := range tasks {
			if t.IsDone() {
				continue
			}
			unblocked := true
			for _, blocker := range g.RevAdj[t.TaskID] {
				if !done[blocker] {
					unblocked = false
					break
				}
			}
			if unblocked {
				ready = append(ready, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ready, nil
}
