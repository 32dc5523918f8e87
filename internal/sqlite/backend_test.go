// Tests for the SQLite backend lifecycle, tenant scoping and constraints.
package sqlite

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(WithLogger(log.New(io.Discard)))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func seedTask(t *testing.T, b *Backend, tenantID, title string) *types.Task {
	t.Helper()
	task := &types.Task{TenantID: tenantID, Title: title, ProjectID: "p1"}
	task.ApplyDefaults()
	require.NoError(t, b.Update(context.Background(), func(tx types.Tx) error {
		return tx.InsertTask(task)
	}))
	return task
}

func TestBackend_Attach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend(WithLogger(log.New(io.Discard)))
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dir, DatabaseFile))
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, dir, b.DataDir())

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "dolt"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(WithLogger(log.New(io.Discard)))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should be a no-op")

	err := b.View(context.Background(), func(tx types.Tx) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	err = b.Update(context.Background(), func(tx types.Tx) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_ReattachKeepsData(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend(WithLogger(log.New(io.Discard)))
	require.NoError(t, b.Attach(config))
	task := &types.Task{TenantID: "t1", Title: "persist me", ProjectID: "p1"}
	task.ApplyDefaults()
	require.NoError(t, b.Update(context.Background(), func(tx types.Tx) error { return tx.InsertTask(task) }))
	require.NoError(t, b.Detach())

	b2 := NewBackend(WithLogger(log.New(io.Discard)))
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	var got *types.Task
	require.NoError(t, b2.View(context.Background(), func(tx types.Tx) error {
		var err error
		got, err = tx.GetTask("t1", task.TaskID)
		return err
	}))
	assert.Equal(t, "persist me", got.Title)
}

func TestBackend_UpdateRollsBackOnError(t *testing.T) {
	b := setupBackend(t)
	boom := errors.New("boom")

	var id string
	err := b.Update(context.Background(), func(tx types.Tx) error {
		task := &types.Task{TenantID: "t1", Title: "doomed", ProjectID: "p1"}
		task.ApplyDefaults()
		if err := tx.InsertTask(task); err != nil {
			return err
		}
		id = task.TaskID
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = b.View(context.Background(), func(tx types.Tx) error {
		_, err := tx.GetTask("t1", id)
		return err
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBackend_TaskRoundTrip(t *testing.T) {
	b := setupBackend(t)
	milestone := "m1"
	task := &types.Task{
		TenantID:    "t1",
		Title:       "Write report",
		ProjectID:   "p1",
		Assignees:   []string{"bob", "alice", "bob"},
		Tags:        []string{"q3"},
		MilestoneID: &milestone,
	}
	task.ApplyDefaults()
	ctx := context.Background()
	require.NoError(t, b.Update(ctx, func(tx types.Tx) error { return tx.InsertTask(task) }))

	var got *types.Task
	require.NoError(t, b.View(ctx, func(tx types.Tx) error {
		var err error
		got, err = tx.GetTask("t1", task.TaskID)
		return err
	}))
	assert.Equal(t, []string{"alice", "bob"}, got.Assignees)
	assert.Equal(t, []string{"q3"}, got.Tags)
	require.NotNil(t, got.MilestoneID)
	assert.Equal(t, "m1", *got.MilestoneID)
	assert.Equal(t, types.PriorityMedium, got.Priority)
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt))
}

func TestBackend_TenantIsolation(t *testing.T) {
	b := setupBackend(t)
	task := seedTask(t, b, "t1", "mine")
	ctx := context.Background()

	err := b.View(ctx, func(tx types.Tx) error {
		_, err := tx.GetTask("t2", task.TaskID)
		return err
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = b.Update(ctx, func(tx types.Tx) error {
		return tx.DeleteTask("t2", task.TaskID)
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.View(ctx, func(tx types.Tx) error {
		tasks, err := tx.ListTasks("t2", types.TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
		return nil
	}))
}

func TestBackend_DependencyConstraints(t *testing.T) {
	b := setupBackend(t)
	a := seedTask(t, b, "t1", "a")
	c := seedTask(t, b, "t1", "c")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(tx types.Tx) error {
		return tx.InsertDependency(&types.Dependency{TenantID: "t1", BlockingTaskID: a.TaskID, BlockedTaskID: c.TaskID})
	}))

	err := b.Update(ctx, func(tx types.Tx) error {
		return tx.InsertDependency(&types.Dependency{TenantID: "t1", BlockingTaskID: a.TaskID, BlockedTaskID: c.TaskID})
	})
	assert.ErrorIs(t, err, types.ErrDuplicateDependency)

	// Foreign keys keep a referenced task from being deleted first.
	err = b.Update(ctx, func(tx types.Tx) error {
		return tx.DeleteTask("t1", a.TaskID)
	})
	assert.Error(t, err)

	require.NoError(t, b.Update(ctx, func(tx types.Tx) error {
		n, err := tx.DeleteDependenciesForTask("t1", a.TaskID)
		assert.Equal(t, int64(1), n)
		if err != nil {
			return err
		}
		return tx.DeleteTask("t1", a.TaskID)
	}))
}

func TestBackend_LinkUniquePerTask(t *testing.T) {
	b := setupBackend(t)
	task := seedTask(t, b, "t1", "a")
	ctx := context.Background()

	var todoIDs []string
	require.NoError(t, b.Update(ctx, func(tx types.Tx) error {
		for _, title := range []string{"monday", "tuesday"} {
			todo := &types.Todo{TenantID: "t1", Title: title, Status: types.TodoStatusTodo}
			if err := tx.InsertTodo(todo); err != nil {
				return err
			}
			todoIDs = append(todoIDs, todo.TodoID)
		}
		return tx.InsertLink(&types.TaskTodoLink{TenantID: "t1", TodoID: todoIDs[0], TaskID: task.TaskID})
	}))

	err := b.Update(ctx, func(tx types.Tx) error {
		return tx.InsertLink(&types.TaskTodoLink{TenantID: "t1", TodoID: todoIDs[1], TaskID: task.TaskID})
	})
	assert.ErrorIs(t, err, types.ErrTaskAlreadyLinked)
}

func TestBackend_CountSubtasks(t *testing.T) {
	b := setupBackend(t)
	a := seedTask(t, b, "t1", "a")
	c := seedTask(t, b, "t1", "c")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(tx types.Tx) error {
		for i, status := range []string{types.SubtaskStatusDone, types.SubtaskStatusTodo, types.SubtaskStatusDone} {
			s := &types.Subtask{TenantID: "t1", TaskID: a.TaskID, Title: "s", Status: status, Position: i + 1}
			if err := tx.InsertSubtask(s); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, b.View(ctx, func(tx types.Tx) error {
		counts, err := tx.CountSubtasks("t1", []string{a.TaskID, c.TaskID, "missing"})
		require.NoError(t, err)
		assert.Equal(t, types.SubtaskCount{Completed: 2, Total: 3}, counts[a.TaskID])
		_, ok := counts[c.TaskID]
		assert.False(t, ok, "tasks without subtasks are absent")

		next, err := tx.NextSubtaskPosition("t1", a.TaskID)
		require.NoError(t, err)
		assert.Equal(t, 4, next)

		other, err := tx.CountSubtasks("t2", []string{a.TaskID})
		require.NoError(t, err)
		assert.Empty(t, other)
		return nil
	}))
}

func TestChunk(t *testing.T) {
	ids := make([]string, 1201)
	for i := range ids {
		ids[i] = "x"
	}
	chunks := chunk(ids, maxInParams)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[2], 201)
	assert.Empty(t, chunk(nil, maxInParams))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
