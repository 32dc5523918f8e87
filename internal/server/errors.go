package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrSelfDependency),
		errors.Is(err, types.ErrDuplicateDependency),
		errors.Is(err, types.ErrCyclicDependency),
		errors.Is(err, types.ErrTaskAlreadyLinked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Conflicts that carry structured detail
// expose it so that clients can offer a follow-up.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}

	var linked *types.AlreadyLinkedError
	if errors.As(err, &linked) {
		body["current_todo_id"] = linked.CurrentTodoID
	}
	var cycle *types.CycleError
	if errors.As(err, &cycle) {
		body["path"] = cycle.Path
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
		body["error"] = "internal error"
	}
	c.JSON(status, body)
}

// badRequest reports a body that could not be bound.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
