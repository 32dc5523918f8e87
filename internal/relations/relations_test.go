package relations

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/internal/tenant"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type fixture struct {
	store    *sqlite.Backend
	deps     *Dependencies
	links    *Links
	subtasks *Subtasks
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.New(io.Discard)
	store := sqlite.NewBackend(sqlite.WithLogger(logger))
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })

	guard := tenant.Guard{}
	return &fixture{
		store:    store,
		deps:     NewDependencies(store, guard, logger),
		links:    NewLinks(store, guard, logger),
		subtasks: NewSubtasks(store, guard, logger),
		ctx:      tenant.WithTenant(context.Background(), "t1"),
	}
}

func (f *fixture) task(t *testing.T, title string) string {
	return f.taskFor(t, "t1", title)
}

func (f *fixture) taskFor(t *testing.T, tenantID, title string) string {
	t.Helper()
	task := &types.Task{TenantID: tenantID, Title: title, ProjectID: "p1"}
	task.ApplyDefaults()
	require.NoError(t, f.store.Update(context.Background(), func(tx types.Tx) error {
		return tx.InsertTask(task)
	}))
	return task.TaskID
}

func (f *fixture) todo(t *testing.T, title string) string {
	t.Helper()
	todo := &types.Todo{TenantID: "t1", Title: title, Status: types.TodoStatusTodo}
	require.NoError(t, f.store.Update(context.Background(), func(tx types.Tx) error {
		return tx.InsertTodo(todo)
	}))
	return todo.TodoID
}

func (f *fixture) setStatus(t *testing.T, taskID, status string) {
	t.Helper()
	require.NoError(t, f.store.Update(context.Background(), func(tx types.Tx) error {
		task, err := tx.GetTask("t1", taskID)
		if err != nil {
			return err
		}
		task.Status = status
		return tx.UpdateTask(task)
	}))
}

func (f *fixture) edgeCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.store.View(context.Background(), func(tx types.Tx) error {
		deps, err := tx.ListDependencies("t1")
		n = len(deps)
		return err
	}))
	return n
}

func ids(tasks []*types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.TaskID
	}
	return out
}
