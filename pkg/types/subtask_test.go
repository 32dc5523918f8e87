package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtaskToggle(t *testing.T) {
	s := &Subtask{Status: SubtaskStatusTodo}

	s.Toggle()
	assert.Equal(t, SubtaskStatusDone, s.Status)

	s.Toggle()
	assert.Equal(t, SubtaskStatusTodo, s.Status)
}

func TestNewProgress(t *testing.T) {
	tests := []struct {
		name  string
		count SubtaskCount
		want  Progress
	}{
		{
			name:  "no subtasks",
			count: SubtaskCount{},
			want:  Progress{},
		},
		{
			name:  "half done",
			count: SubtaskCount{Completed: 2, Total: 4},
			want:  Progress{Completed: 2, Total: 4, Percentage: 0.5},
		},
		{
			name:  "all done",
			count: SubtaskCount{Completed: 3, Total: 3},
			want:  Progress{Completed: 3, Total: 3, Percentage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewProgress(tt.count))
		})
	}
}

func TestStructuredErrors(t *testing.T) {
	var err error = &CycleError{BlockingTaskID: "c", BlockedTaskID: "a", Path: []string{"a", "b", "c"}}
	assert.ErrorIs(t, err, ErrCyclicDependency)
	assert.NotErrorIs(t, err, ErrDuplicateDependency)
	assert.Contains(t, err.Error(), "a -> b -> c")

	err = &AlreadyLinkedError{TaskID: "t", CurrentTodoID: "d1"}
	assert.ErrorIs(t, err, ErrTaskAlreadyLinked)

	var linked *AlreadyLinkedError
	assert.True(t, errors.As(err, &linked))
	assert.Equal(t, "d1", linked.CurrentTodoID)
}
