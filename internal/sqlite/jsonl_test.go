package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.jsonl")
	content := "{\"task_id\":\"a\"}\n\nnot json\n{\"task_id\":\"b\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestWriteJSONL_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.jsonl")
	records := []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"a":2}`)}

	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := setupBackend(t)
	ctx := context.Background()
	a := seedTask(t, src, "t1", "a")
	c := seedTask(t, src, "t1", "c")
	seedTask(t, src, "t2", "other tenant")

	require.NoError(t, src.Update(ctx, func(tx types.Tx) error {
		if err := tx.InsertDependency(&types.Dependency{TenantID: "t1", BlockingTaskID: a.TaskID, BlockedTaskID: c.TaskID}); err != nil {
			return err
		}
		date := "2026-10-19"
		todo := &types.Todo{TenantID: "t1", Title: "today", Status: types.TodoStatusTodo, ScheduledDate: &date}
		if err := tx.InsertTodo(todo); err != nil {
			return err
		}
		if err := tx.InsertLink(&types.TaskTodoLink{TenantID: "t1", TodoID: todo.TodoID, TaskID: a.TaskID}); err != nil {
			return err
		}
		return tx.InsertSubtask(&types.Subtask{TenantID: "t1", TaskID: a.TaskID, Title: "s", Status: types.SubtaskStatusTodo, Position: 1})
	}))

	dir := t.TempDir()
	exported, err := src.Export(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, exported[types.TableTasks])
	assert.Equal(t, 1, exported[types.TableDependencies])

	dst := setupBackend(t)
	imported, err := dst.Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, exported, imported)

	require.NoError(t, dst.View(ctx, func(tx types.Tx) error {
		got, err := tx.GetTask("t1", a.TaskID)
		require.NoError(t, err)
		assert.Equal(t, "a", got.Title)
		assert.Equal(t, []string{}, got.Assignees)

		link, err := tx.LinkForTask("t1", a.TaskID)
		require.NoError(t, err)
		todo, err := tx.GetTodo("t1", link.TodoID)
		require.NoError(t, err)
		require.NotNil(t, todo.ScheduledDate)
		assert.Equal(t, "2026-10-19", *todo.ScheduledDate)

		subs, err := tx.ListSubtasks("t1", a.TaskID)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, 1, subs[0].Position)
		return nil
	}))

	// A second import finds every id present and inserts nothing.
	again, err := dst.Import(ctx, dir)
	require.NoError(t, err)
	assert.Zero(t, again[types.TableTasks])
}

func TestImport_MissingFilesSkipped(t *testing.T) {
	b := setupBackend(t)
	counts, err := b.Import(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestImport_RejectsCycle(t *testing.T) {
	dir := t.TempDir()
	tasks := "" +
		`{"task_id":"a","tenant_id":"t1","title":"a","status":"todo","priority":"medium","assignees":[],"tags":[],"project_id":"p","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}` + "\n" +
		`{"task_id":"b","tenant_id":"t1","title":"b","status":"todo","priority":"medium","assignees":[],"tags":[],"project_id":"p","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}` + "\n"
	deps := "" +
		`{"dependency_id":"d1","tenant_id":"t1","blocking_task_id":"a","blocked_task_id":"b","created_at":"2026-01-01T00:00:00Z"}` + "\n" +
		`{"dependency_id":"d2","tenant_id":"t1","blocking_task_id":"b","blocked_task_id":"a","created_at":"2026-01-01T00:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.jsonl"), []byte(tasks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dependencies.jsonl"), []byte(deps), 0o644))

	b := setupBackend(t)
	_, err := b.Import(context.Background(), dir)
	require.ErrorIs(t, err, types.ErrCyclicDependency)

	require.NoError(t, b.View(context.Background(), func(tx types.Tx) error {
		tasks, err := tx.ListTasks("t1", types.TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, tasks, "failed import must leave the store unchanged")
		return nil
	}))
}

func TestImport_RejectsCrossTenantReference(t *testing.T) {
	dir := t.TempDir()
	tasks := "" +
		`{"task_id":"a","tenant_id":"t1","title":"a","status":"todo","priority":"medium","assignees":"[]","tags":"[]","project_id":"p","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}` + "\n"
	subs := `{"subtask_id":"s1","tenant_id":"t2","task_id":"a","title":"s","status":"todo","position":1,"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.jsonl"), []byte(tasks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subtasks.jsonl"), []byte(subs), 0o644))

	b := setupBackend(t)
	_, err := b.Import(context.Background(), dir)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestImport_SkipsSelfEdgeAndOrphans(t *testing.T) {
	dir := t.TempDir()
	tasks := `{"task_id":"a","tenant_id":"t1","title":"a","status":"todo","priority":"medium","assignees":"[]","tags":"[]","project_id":"p","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}` + "\n"
	deps := "" +
		`{"dependency_id":"d1","tenant_id":"t1","blocking_task_id":"a","blocked_task_id":"a","created_at":"2026-01-01T00:00:00Z"}` + "\n" +
		`{"dependency_id":"d2","tenant_id":"t1","blocking_task_id":"a","blocked_task_id":"ghost","created_at":"2026-01-01T00:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.jsonl"), []byte(tasks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dependencies.jsonl"), []byte(deps), 0o644))

	b := setupBackend(t)
	counts, err := b.Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[types.TableTasks])
	assert.Equal(t, 0, counts[types.TableDependencies])
}

func TestImport_SkipsInvalidRows(t *testing.T) {
	const ts = `"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"`
	dir := t.TempDir()
	tasks := "" +
		`{"task_id":"good","tenant_id":"t1","title":"ok","status":"todo","priority":"medium","assignees":["bob"],"tags":[],"project_id":"p",` + ts + `}` + "\n" +
		`{"task_id":"bare","tenant_id":"t1","title":"defaults","project_id":"p",` + ts + `}` + "\n" +
		`{"task_id":"bad1","tenant_id":"t1","title":"","status":"todo","priority":"medium","project_id":"p",` + ts + `}` + "\n" +
		`{"task_id":"bad2","tenant_id":"t1","title":"x","status":"bogus","priority":"medium","project_id":"p",` + ts + `}` + "\n" +
		`{"task_id":"bad3","tenant_id":"t1","title":"x","status":"todo","priority":"nope","project_id":"p",` + ts + `}` + "\n" +
		`{"task_id":"bad4","tenant_id":"t1","title":"x","status":"todo","priority":"medium","project_id":"p","created_at":"yesterday","updated_at":"2026-01-01T00:00:00Z"}` + "\n" +
		`{"task_id":"bad5","tenant_id":"t1","title":"x","project_id":"p","assignees":[1,2],` + ts + `}` + "\n" +
		`{"task_id":"","tenant_id":"t1","title":"x","project_id":"p",` + ts + `}` + "\n"
	todos := "" +
		`{"todo_id":"d1","tenant_id":"t1","title":"bad date","status":"todo","scheduled_date":"19/10/2026",` + ts + `}` + "\n"
	subs := "" +
		`{"subtask_id":"s1","tenant_id":"t1","task_id":"good","title":"ok","status":"done","position":1,` + ts + `}` + "\n" +
		`{"subtask_id":"s2","tenant_id":"t1","task_id":"good","title":"half","status":"todo","position":1.5,` + ts + `}` + "\n" +
		`{"subtask_id":"s3","tenant_id":"t1","task_id":"good","title":"x","status":"maybe","position":2,` + ts + `}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.jsonl"), []byte(tasks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.jsonl"), []byte(todos), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subtasks.jsonl"), []byte(subs), 0o644))

	b := setupBackend(t)
	counts, err := b.Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[types.TableTasks])
	assert.Equal(t, 0, counts[types.TableTodos])
	assert.Equal(t, 1, counts[types.TableSubtasks])

	require.NoError(t, b.View(context.Background(), func(tx types.Tx) error {
		tasks, err := tx.ListTasks("t1", types.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		bare, err := tx.GetTask("t1", "bare")
		require.NoError(t, err)
		assert.Equal(t, types.TaskStatusTodo, bare.Status)
		assert.Equal(t, types.PriorityMedium, bare.Priority)
		assert.Equal(t, []string{}, bare.Tags)

		good, err := tx.GetTask("t1", "good")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, good.Assignees)

		subs, err := tx.ListSubtasks("t1", "good")
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, 1, subs[0].Position)
		return nil
	}))
}
