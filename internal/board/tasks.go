package board

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Tasks is the task CRUD service.
type Tasks struct {
	service
}

// NewTasks creates a Tasks service.
func NewTasks(store types.Store, tenants types.TenantResolver, logger *log.Logger) *Tasks {
	return &Tasks{service: newService(store, tenants, logger)}
}

// TaskPatch lists the fields Update changes. Nil fields are left alone; a
// MilestoneID pointing at "" clears the milestone.
type TaskPatch struct {
	Title       *string   `json:"title"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	Assignees   *[]string `json:"assignees"`
	Tags        *[]string `json:"tags"`
	ProjectID   *string   `json:"project_id"`
	MilestoneID *string   `json:"milestone_id"`
}

func (p TaskPatch) apply(t *types.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignees != nil {
		t.Assignees = *p.Assignees
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.MilestoneID != nil {
		if *p.MilestoneID == "" {
			t.MilestoneID = nil
		} else {
			m := *p.MilestoneID
			t.MilestoneID = &m
		}
	}
}

// Create validates and stores a new task for the caller's tenant. The id,
// tenant and timestamps of task are filled in.
func (s *Tasks) Create(ctx context.Context, task *types.Task) error {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return err
	}
	task.TaskID = ""
	task.TenantID = tenantID
	task.Title = strings.TrimSpace(task.Title)
	if err := task.Validate(); err != nil {
		return err
	}
	task.ApplyDefaults()

	if err := s.store.Update(ctx, func(tx types.Tx) error {
		return tx.InsertTask(task)
	}); err != nil {
		return err
	}

	s.logger.Info("task created", "tenant", tenantID, "id", task.TaskID, "project", task.ProjectID)
	return nil
}

// Get returns one task of the caller's tenant.
func (s *Tasks) Get(ctx context.Context, taskID string) (*types.Task, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}
	var task *types.Task
	err = s.store.View(ctx, func(tx types.Tx) error {
		task, err = tx.GetTask(tenantID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the caller's tasks matching filter, in creation order.
func (s *Tasks) List(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}
	var tasks []*types.Task
	err = s.store.View(ctx, func(tx types.Tx) error {
		tasks, err = tx.ListTasks(tenantID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies patch to a task and returns the stored result.
func (s *Tasks) Update(ctx context.Context, taskID string, patch TaskPatch) (*types.Task, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var task *types.Task
	err = s.store.Update(ctx, func(tx types.Tx) error {
		task, err = tx.GetTask(tenantID, taskID)
		if err != nil {
			return err
		}
		patch.apply(task)
		task.Title = strings.TrimSpace(task.Title)
		if err := task.Validate(); err != nil {
			return err
		}
		task.ApplyDefaults()
		return tx.UpdateTask(task)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "tenant", tenantID, "id", taskID)
	return task, nil
}

// SetStatus moves a task to status.
func (s *Tasks) SetStatus(ctx context.Context, taskID, status string) (*types.Task, error) {
	return s.Update(ctx, taskID, TaskPatch{Status: &status})
}

// Delete removes a task together with its subtasks, every dependency edge
// touching it and its todo link, in one transaction.
func (s *Tasks) Delete(ctx context.Context, taskID string) error {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	var subtasks, edges, links int64
	err = s.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTask(tenantID, taskID); err != nil {
			return err
		}
		if subtasks, err = tx.DeleteSubtasksForTask(tenantID, taskID); err != nil {
			return err
		}
		if edges, err = tx.DeleteDependenciesForTask(tenantID, taskID); err != nil {
			return err
		}
		if links, err = tx.DeleteLinkForTask(tenantID, taskID); err != nil {
			return err
		}
		return tx.DeleteTask(tenantID, taskID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", "tenant", tenantID, "id", taskID,
		"subtasks", subtasks, "dependencies", edges, "links", links)
	return nil
}
