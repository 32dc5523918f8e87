package relations

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// MaxBatchSize is the largest id list ProgressBatch accepts.
const MaxBatchSize = 5000

// Subtasks maintains checklist items under tasks and reports their progress.
type Subtasks struct {
	manager
}

// NewSubtasks creates a Subtasks manager.
func NewSubtasks(store types.Store, tenants types.TenantResolver, logger *log.Logger) *Subtasks {
	return &Subtasks{manager: newManager(store, tenants, logger)}
}

// Create adds a subtask at the end of taskID's list and returns its id.
func (m *Subtasks) Create(ctx context.Context, taskID, title string) (string, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return "", err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", types.ErrInvalidTitle
	}

	var id string
	err = m.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		pos, err := tx.NextSubtaskPosition(tenantID, taskID)
		if err != nil {
			return err
		}
		s := &types.Subtask{
			TenantID: tenantID,
			TaskID:   taskID,
			Title:    title,
			Status:   types.SubtaskStatusTodo,
			Position: pos,
		}
		if err := tx.InsertSubtask(s); err != nil {
			return err
		}
		id = s.SubtaskID
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("subtask created", "tenant", tenantID, "task", taskID, "id", id)
	return id, nil
}

// Toggle flips a subtask between todo and done and returns the result.
func (m *Subtasks) Toggle(ctx context.Context, subtaskID string) (*types.Subtask, error) {
	return m.modify(ctx, subtaskID, func(s *types.Subtask) { s.Toggle() })
}

// Update renames a subtask.
func (m *Subtasks) Update(ctx context.Context, subtaskID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return types.ErrInvalidTitle
	}
	_, err := m.modify(ctx, subtaskID, func(s *types.Subtask) { s.Title = title })
	return err
}

func (m *Subtasks) modify(ctx context.Context, subtaskID string, change func(*types.Subtask)) (*types.Subtask, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var s *types.Subtask
	err = m.store.Update(ctx, func(tx types.Tx) error {
		s, err = tx.GetSubtask(tenantID, subtaskID)
		if err != nil {
			return err
		}
		change(s)
		return tx.UpdateSubtask(s)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("subtask updated", "tenant", tenantID, "id", subtaskID, "status", s.Status)
	return s, nil
}

// Remove deletes a subtask.
func (m *Subtasks) Remove(ctx context.Context, subtaskID string) error {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	err = m.store.Update(ctx, func(tx types.Tx) error {
		return tx.DeleteSubtask(tenantID, subtaskID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("subtask removed", "tenant", tenantID, "id", subtaskID)
	return nil
}

// List returns taskID's subtasks ordered by position.
func (m *Subtasks) List(ctx context.Context, taskID string) ([]*types.Subtask, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var subtasks []*types.Subtask
	err = m.store.View(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		subtasks, err = tx.ListSubtasks(tenantID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return subtasks, nil
}

// Progress returns the completion summary of taskID. A task that is missing
// or has no subtasks yields the zero Progress.
func (m *Subtasks) Progress(ctx context.Context, taskID string) (types.Progress, error) {
	results, err := m.ProgressBatch(ctx, []string{taskID})
	if err != nil {
		return types.Progress{}, err
	}
	return results[0], nil
}

// ProgressBatch returns one Progress per input id, in input order. Duplicate
// ids repeat their result; empty, unknown and foreign ids yield the zero
// Progress. Only a request of more than MaxBatchSize ids fails, with
// ErrBatchTooLarge.
func (m *Subtasks) ProgressBatch(ctx context.Context, taskIDs []string) ([]types.Progress, error) {
	tenantID, err := m.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}
	if len(taskIDs) > MaxBatchSize {
		return nil, types.ErrBatchTooLarge
	}

	unique := make([]string, 0, len(taskIDs))
	seen := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	counts := map[string]types.SubtaskCount{}
	if len(unique) > 0 {
		err = m.store.View(ctx, func(tx types.Tx) error {
			counts, err = tx.CountSubtasks(tenantID, unique)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	results := make([]types.Progress, len(taskIDs))
	for i, id := range taskIDs {
		results[i] = types.NewProgress(counts[id])
	}
	return results, nil
}
