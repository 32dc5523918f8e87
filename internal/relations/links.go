package relations

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Links maintains the single todo parent of each task.
type Links struct {
	manager
}

// NewLinks creates a Links manager.
func NewLinks(store types.Store, tenants types.TenantResolver, logger *log.Logger) *Links {
	return &Links{manager: newManager(store, tenants, logger)}
}

// Link attaches taskID to todoID. When the task already has a parent, even
// the same todo, Link returns a *types.AlreadyLinkedError naming it; callers
// may follow up with Relink.
func (m *Links) Link(ctx context.Context, todoID, taskID string) error {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	err = m.store.Update(ctx, func(tx types.Tx) error {
		if err := ownsBoth(tx, tenantID, todoID, taskID); err != nil {
			return err
		}

		current, err := tx.LinkForTask(tenantID, taskID)
		if err == nil {
			return &types.AlreadyLinkedError{TaskID: taskID, CurrentTodoID: current.TodoID}
		}
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		return tx.InsertLink(&types.TaskTodoLink{TenantID: tenantID, TodoID: todoID, TaskID: taskID})
	})
	if err != nil {
		return err
	}

	m.logger.Info("task linked", "tenant", tenantID, "task", taskID, "todo", todoID)
	return nil
}

// Relink moves taskID under targetTodoID, replacing any current parent in the
// same transaction. Relinking to the current parent changes nothing.
func (m *Links) Relink(ctx context.Context, targetTodoID, taskID string) error {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	var previous string
	err = m.store.Update(ctx, func(tx types.Tx) error {
		previous = ""
		if err := ownsBoth(tx, tenantID, targetTodoID, taskID); err != nil {
			return err
		}

		current, err := tx.LinkForTask(tenantID, taskID)
		switch {
		case err == nil && current.TodoID == targetTodoID:
			previous = targetTodoID
			return nil
		case err == nil:
			previous = current.TodoID
		case !errors.Is(err, types.ErrNotFound):
			return err
		}

		if _, err := tx.DeleteLinkForTask(tenantID, taskID); err != nil {
			return err
		}
		return tx.InsertLink(&types.TaskTodoLink{TenantID: tenantID, TodoID: targetTodoID, TaskID: taskID})
	})
	if err != nil {
		return err
	}

	if previous == targetTodoID {
		m.logger.Debug("relink to current parent", "tenant", tenantID, "task", taskID, "todo", targetTodoID)
		return nil
	}
	m.logger.Info("task relinked", "tenant", tenantID, "task", taskID, "from", previous, "to", targetTodoID)
	return nil
}

// Unlink detaches taskID from its parent. Returns ErrNotFound when the task
// has no parent.
func (m *Links) Unlink(ctx context.Context, taskID string) error {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	err = m.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		n, err := tx.DeleteLinkForTask(tenantID, taskID)
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("task unlinked", "tenant", tenantID, "task", taskID)
	return nil
}

// Parent returns the link row of taskID, or ErrNotFound when it has none.
func (m *Links) Parent(ctx context.Context, taskID string) (*types.TaskTodoLink, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var link *types.TaskTodoLink
	err = m.store.View(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		link, err = tx.LinkForTask(tenantID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// TasksForTodo returns the tasks linked to todoID in link order.
func (m *Links) TasksForTodo(ctx context.Context, todoID string) ([]*types.Task, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []*types.Task
	err = m.store.View(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTodo(tenantID, todoID); err != nil {
			return err
		}
		links, err := tx.LinksForTodo(tenantID, todoID)
		if err != nil {
			return err
		}
		tasks = make([]*types.Task, 0, len(links))
		for _, l := range links {
			task, err := tx.GetTask(tenantID, l.TaskID)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func ownsBoth(tx types.Tx, tenantID, todoID, taskID string) error {
	if _, err := tx.GetTodo(tenantID, todoID); err != nil {
		return err
	}
	_, err := tx.GetTask(tenantID, taskID)
	return err
}
