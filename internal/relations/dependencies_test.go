package relations

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/tenant"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestDependencies_Create(t *testing.T) {
	f := newFixture(t)
	a, b := f.task(t, "a"), f.task(t, "b")

	id, err := f.deps.Create(f.ctx, a, b)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, f.edgeCount(t))

	blockers, err := f.deps.Blockers(f.ctx, b)
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Equal(t, a, blockers[0].BlockingTaskID)

	blocking, err := f.deps.Blocking(f.ctx, a)
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, id, blocking[0].DependencyID)
}

func TestDependencies_CreateRejections(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.task(t, "a"), f.task(t, "b"), f.task(t, "c")
	foreign := f.taskFor(t, "t2", "foreign")

	_, err := f.deps.Create(f.ctx, a, b)
	require.NoError(t, err)
	_, err = f.deps.Create(f.ctx, b, c)
	require.NoError(t, err)

	tests := []struct {
		name     string
		blocking string
		blocked  string
		wantErr  error
	}{
		{"self edge", a, a, types.ErrSelfDependency},
		{"duplicate edge", a, b, types.ErrDuplicateDependency},
		{"direct cycle", b, a, types.ErrCyclicDependency},
		{"transitive cycle", c, a, types.ErrCyclicDependency},
		{"missing blocking task", "nope", a, types.ErrNotFound},
		{"foreign blocked task", a, foreign, types.ErrNotFound},
		{"blank blocked task", a, "", types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.deps.Create(f.ctx, tt.blocking, tt.blocked)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 2, f.edgeCount(t), "rejected create must not write")
		})
	}
}

func TestDependencies_CycleErrorCarriesPath(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.task(t, "a"), f.task(t, "b"), f.task(t, "c")
	_, err := f.deps.Create(f.ctx, a, b)
	require.NoError(t, err)
	_, err = f.deps.Create(f.ctx, b, c)
	require.NoError(t, err)

	_, err = f.deps.Create(f.ctx, c, a)
	var cycleErr *types.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{a, b, c}, cycleErr.Path)
	assert.Equal(t, c, cycleErr.BlockingTaskID)
}

func TestDependencies_Unauthorized(t *testing.T) {
	f := newFixture(t)
	a, b := f.task(t, "a"), f.task(t, "b")

	_, err := f.deps.Create(context.Background(), a, b)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
	assert.ErrorIs(t, f.deps.Remove(context.Background(), "x"), types.ErrUnauthorized)
	_, err = f.deps.AvailableBlockers(context.Background(), a)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestDependencies_AvailableBlockers(t *testing.T) {
	f := newFixture(t)
	a, b, c, d, e := f.task(t, "a"), f.task(t, "b"), f.task(t, "c"), f.task(t, "d"), f.task(t, "e")
	f.taskFor(t, "t2", "foreign")

	// d blocks a; a blocks b; b blocks c. e is unrelated.
	for _, edge := range [][2]string{{d, a}, {a, b}, {b, c}} {
		_, err := f.deps.Create(f.ctx, edge[0], edge[1])
		require.NoError(t, err)
	}

	got, err := f.deps.AvailableBlockers(f.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{e}, ids(got))

	got, err = f.deps.AvailableBlockers(f.ctx, c)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, d, e}, ids(got))

	// Every returned candidate can be added without a cycle.
	for _, candidate := range got {
		_, err := f.deps.Create(f.ctx, candidate.TaskID, c)
		assert.NoError(t, err)
	}

	_, err = f.deps.AvailableBlockers(f.ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDependencies_Remove(t *testing.T) {
	f := newFixture(t)
	a, b := f.task(t, "a"), f.task(t, "b")
	id, err := f.deps.Create(f.ctx, a, b)
	require.NoError(t, err)

	other := tenant.WithTenant(context.Background(), "t2")
	assert.ErrorIs(t, f.deps.Remove(other, id), types.ErrNotFound)
	assert.Equal(t, 1, f.edgeCount(t))

	require.NoError(t, f.deps.Remove(f.ctx, id))
	assert.Equal(t, 0, f.edgeCount(t))
	assert.ErrorIs(t, f.deps.Remove(f.ctx, id), types.ErrNotFound)

	// The reverse edge is allowed once the original is gone.
	_, err = f.deps.Create(f.ctx, b, a)
	assert.NoError(t, err)
}

func TestDependencies_Ready(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.task(t, "a"), f.task(t, "b"), f.task(t, "c")
	_, err := f.deps.Create(f.ctx, a, b)
	require.NoError(t, err)
	_, err = f.deps.Create(f.ctx, b, c)
	require.NoError(t, err)

	ready, err := f.deps.Ready(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, ids(ready))

	f.setStatus(t, a, types.TaskStatusDone)
	ready, err = f.deps.Ready(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, ids(ready))
}

func TestDependencies_BlankIDsAreNotFound(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, "a")

	_, err := f.deps.AvailableBlockers(f.ctx, "")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, f.deps.Remove(f.ctx, ""), types.ErrNotFound)
	_, err = f.deps.Blockers(f.ctx, "")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, f.links.Link(f.ctx, "", a), types.ErrNotFound)
	assert.NotErrorIs(t, f.links.Link(f.ctx, "", a), types.ErrValidation)
}

func TestDependencies_ConcurrentCreatesStayAcyclic(t *testing.T) {
	f := newFixture(t)
	a, b := f.task(t, "a"), f.task(t, "b")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = f.deps.Create(f.ctx, a, b)
			} else {
				_, errs[i] = f.deps.Create(f.ctx, b, a)
			}
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, types.ErrCyclicDependency) && !errors.Is(err, types.ErrDuplicateDependency) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.edgeCount(t))
}
