package board

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Todos is the todo CRUD service.
type Todos struct {
	service
}

// NewTodos creates a Todos service.
func NewTodos(store types.Store, tenants types.TenantResolver, logger *log.Logger) *Todos {
	return &Todos{service: newService(store, tenants, logger)}
}

// Create validates and stores a new todo for the caller's tenant.
func (s *Todos) Create(ctx context.Context, todo *types.Todo) error {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return err
	}
	todo.TodoID = ""
	todo.TenantID = tenantID
	todo.Title = strings.TrimSpace(todo.Title)
	if todo.ScheduledDate != nil && *todo.ScheduledDate == "" {
		todo.ScheduledDate = nil
	}
	if err := todo.Validate(); err != nil {
		return err
	}
	if todo.Status == "" {
		todo.Status = types.TodoStatusTodo
	}

	if err := s.store.Update(ctx, func(tx types.Tx) error {
		return tx.InsertTodo(todo)
	}); err != nil {
		return err
	}

	s.logger.Info("todo created", "tenant", tenantID, "id", todo.TodoID)
	return nil
}

// Get returns one todo of the caller's tenant.
func (s *Todos) Get(ctx context.Context, todoID string) (*types.Todo, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}
	var todo *types.Todo
	err = s.store.View(ctx, func(tx types.Tx) error {
		todo, err = tx.GetTodo(tenantID, todoID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns the caller's todos matching filter, by scheduled date.
func (s *Todos) List(ctx context.Context, filter types.TodoFilter) ([]*types.Todo, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}
	var todos []*types.Todo
	err = s.store.View(ctx, func(tx types.Tx) error {
		todos, err = tx.ListTodos(tenantID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// SetStatus marks a todo open or done.
func (s *Todos) SetStatus(ctx context.Context, todoID, status string) (*types.Todo, error) {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return nil, err
	}

	var todo *types.Todo
	err = s.store.Update(ctx, func(tx types.Tx) error {
		todo, err = tx.GetTodo(tenantID, todoID)
		if err != nil {
			return err
		}
		if err := todo.SetStatus(status); err != nil {
			return err
		}
		return tx.UpdateTodo(todo)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo status changed", "tenant", tenantID, "id", todoID, "status", status)
	return todo, nil
}

// Delete removes a todo and its link rows. Linked tasks stay, unparented.
func (s *Todos) Delete(ctx context.Context, todoID string) error {
	tenantID, err := s.tenants.Tenant(ctx)
	if err != nil {
		return err
	}

	var unlinked int64
	err = s.store.Update(ctx, func(tx types.Tx) error {
		if _, err := tx.GetTodo(tenantID, todoID); err != nil {
			return err
		}
		if unlinked, err = tx.DeleteLinksForTodo(tenantID, todoID); err != nil {
			return err
		}
		return tx.DeleteTodo(tenantID, todoID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("todo deleted", "tenant", tenantID, "id", todoID, "unlinked_tasks", unlinked)
	return nil
}
