package types

import (
	"errors"
	"fmt"
	"strings"
)

// Access errors. ErrNotFound is also returned for rows owned by another
// tenant so callers cannot probe for foreign ids.
var (
	ErrUnauthorized = errors.New("unauthorized: no tenant identity")
	ErrNotFound     = errors.New("entity not found")
)

// Relationship errors.
var (
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrDuplicateDependency = errors.New("dependency already exists")
	ErrCyclicDependency    = errors.New("dependency would create a cycle")
	ErrTaskAlreadyLinked   = errors.New("task is already linked to a todo")
)

// ErrValidation is the parent of every field-level validation error.
var ErrValidation = errors.New("validation failed")

// Field validation errors. Each one matches ErrValidation under errors.Is.
var (
	ErrInvalidTitle    = validationError("title must not be empty")
	ErrInvalidStatus   = validationError("invalid status value")
	ErrInvalidPriority = validationError("invalid priority value")
	ErrInvalidProject  = validationError("project must not be empty")
	ErrInvalidDate     = validationError("scheduled date must be YYYY-MM-DD")
	ErrInvalidData     = validationError("invalid entity data")
	ErrBatchTooLarge   = validationError("batch exceeds maximum size")
)

// fieldError is a validation error that unwraps to ErrValidation.
type fieldError struct {
	msg string
}

func validationError(msg string) error {
	return &fieldError{msg: msg}
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return ErrValidation }

// CycleError reports a dependency that was rejected because the blocking
// task is already reachable from the blocked task. Path runs from the blocked
// task to the blocking task along existing edges.
type CycleError struct {
	BlockingTaskID string
	BlockedTaskID  string
	Path           []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s blocks %s but path %s already exists",
		ErrCyclicDependency, e.BlockingTaskID, e.BlockedTaskID, strings.Join(e.Path, " -> "))
}

// Is lets errors.Is(err, ErrCyclicDependency) match.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// AlreadyLinkedError is the recoverable conflict returned when a task already
// has a todo parent. CurrentTodoID names that parent so the caller can offer
// a relink.
type AlreadyLinkedError struct {
	TaskID        string
	CurrentTodoID string
}

func (e *AlreadyLinkedError) Error() string {
	return fmt.Sprintf("%s: task %s belongs to todo %s", ErrTaskAlreadyLinked, e.TaskID, e.CurrentTodoID)
}

// Is lets errors.Is(err, ErrTaskAlreadyLinked) match.
func (e *AlreadyLinkedError) Is(target error) bool {
	return target == ErrTaskAlreadyLinked
}
