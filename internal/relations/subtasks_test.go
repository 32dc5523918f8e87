package relations

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/tenant"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestSubtasks_CreateAndList(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "report")

	for _, title := range []string{"outline", "draft", "review"} {
		_, err := f.subtasks.Create(f.ctx, task, title)
		require.NoError(t, err)
	}

	list, err := f.subtasks.List(f.ctx, task)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, s := range list {
		assert.Equal(t, i+1, s.Position)
		assert.Equal(t, types.SubtaskStatusTodo, s.Status)
	}
	assert.Equal(t, "outline", list[0].Title)
}

func TestSubtasks_CreateRejections(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "report")

	_, err := f.subtasks.Create(f.ctx, task, "   ")
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = f.subtasks.Create(f.ctx, "missing", "x")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = f.subtasks.Create(context.Background(), task, "x")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestSubtasks_ToggleUpdateRemove(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "report")
	id, err := f.subtasks.Create(f.ctx, task, "draft")
	require.NoError(t, err)

	s, err := f.subtasks.Toggle(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.SubtaskStatusDone, s.Status)
	s, err = f.subtasks.Toggle(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.SubtaskStatusTodo, s.Status)

	require.NoError(t, f.subtasks.Update(f.ctx, id, "final draft"))
	assert.ErrorIs(t, f.subtasks.Update(f.ctx, id, ""), types.ErrValidation)

	other := tenant.WithTenant(context.Background(), "t2")
	_, err = f.subtasks.Toggle(other, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, f.subtasks.Remove(other, id), types.ErrNotFound)

	list, err := f.subtasks.List(f.ctx, task)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "final draft", list[0].Title)

	require.NoError(t, f.subtasks.Remove(f.ctx, id))
	assert.ErrorIs(t, f.subtasks.Remove(f.ctx, id), types.ErrNotFound)
}

func TestSubtasks_Progress(t *testing.T) {
	f := newFixture(t)
	t1, t2 := f.task(t, "four subtasks"), f.task(t, "none")

	for i := 0; i < 4; i++ {
		id, err := f.subtasks.Create(f.ctx, t1, fmt.Sprintf("step %d", i))
		require.NoError(t, err)
		if i < 2 {
			_, err = f.subtasks.Toggle(f.ctx, id)
			require.NoError(t, err)
		}
	}

	got, err := f.subtasks.ProgressBatch(f.ctx, []string{t1, t2})
	require.NoError(t, err)
	assert.Equal(t, []types.Progress{
		{Completed: 2, Total: 4, Percentage: 0.5},
		{Completed: 0, Total: 0, Percentage: 0},
	}, got)

	single, err := f.subtasks.Progress(f.ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, got[0], single)

	missing, err := f.subtasks.Progress(f.ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, types.Progress{}, missing)
}

func TestSubtasks_ProgressBatchFailSoft(t *testing.T) {
	f := newFixture(t)
	t1 := f.task(t, "mine")
	foreign := f.taskFor(t, "t2", "theirs")
	_, err := f.subtasks.Create(f.ctx, t1, "only")
	require.NoError(t, err)
	_, err = f.subtasks.Create(tenant.WithTenant(context.Background(), "t2"), foreign, "theirs")
	require.NoError(t, err)

	got, err := f.subtasks.ProgressBatch(f.ctx, []string{t1, "", foreign, "missing", t1})
	require.NoError(t, err)
	require.Len(t, got, 5)
	want := types.Progress{Completed: 0, Total: 1, Percentage: 0}
	assert.Equal(t, want, got[0])
	assert.Equal(t, types.Progress{}, got[1])
	assert.Equal(t, types.Progress{}, got[2], "foreign ids look empty")
	assert.Equal(t, types.Progress{}, got[3])
	assert.Equal(t, want, got[4], "duplicates repeat their result")

	empty, err := f.subtasks.ProgressBatch(f.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSubtasks_ProgressBatchLimits(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "report")
	_, err := f.subtasks.Create(f.ctx, task, "x")
	require.NoError(t, err)

	// Spans several IN chunks; the real id sits in the last one.
	large := make([]string, 1200)
	for i := range large {
		large[i] = fmt.Sprintf("unknown-%d", i)
	}
	large[len(large)-1] = task
	got, err := f.subtasks.ProgressBatch(f.ctx, large)
	require.NoError(t, err)
	require.Len(t, got, 1200)
	assert.Equal(t, 1, got[1199].Total)

	_, err = f.subtasks.ProgressBatch(f.ctx, make([]string, MaxBatchSize+1))
	assert.ErrorIs(t, err, types.ErrValidation)
}
