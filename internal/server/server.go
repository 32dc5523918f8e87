// Package server exposes the board and relationship operations as a JSON
// API. The tenant of each request comes from the X-Tenant-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/internal/relations"
	"github.com/mesh-intelligence/taskboard/internal/tenant"
)

// TenantHeader carries the caller's tenant id.
const TenantHeader = "X-Tenant-ID"

const shutdownTimeout = 5 * time.Second

// Services groups the operations the API serves.
type Services struct {
	Tasks        *board.Tasks
	Todos        *board.Todos
	Dependencies *relations.Dependencies
	Links        *relations.Links
	Subtasks     *relations.Subtasks
}

// Server is the taskboard HTTP API.
type Server struct {
	svc    Services
	router *gin.Engine
	logger *log.Logger
}

// NewServer creates a Server and registers its routes.
func NewServer(svc Services, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), tenantFromHeader())

	s := &Server{
		svc:    svc,
		router: router,
		logger: logger,
	}

	api := router.Group("/api")
	{
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/ready", s.handleReadyTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/tasks/:id/available-blockers", s.handleAvailableBlockers)
		api.GET("/tasks/:id/blockers", s.handleBlockers)
		api.GET("/tasks/:id/blocking", s.handleBlocking)
		api.POST("/dependencies", s.handleCreateDependency)
		api.DELETE("/dependencies/:id", s.handleRemoveDependency)

		api.POST("/todos", s.handleCreateTodo)
		api.GET("/todos", s.handleListTodos)
		api.GET("/todos/:id", s.handleGetTodo)
		api.PATCH("/todos/:id", s.handleUpdateTodo)
		api.DELETE("/todos/:id", s.handleDeleteTodo)
		api.GET("/todos/:id/tasks", s.handleTodoTasks)

		api.POST("/links", s.handleLink)
		api.GET("/links/:taskId", s.handleParent)
		api.PUT("/links/:taskId", s.handleRelink)
		api.DELETE("/links/:taskId", s.handleUnlink)

		api.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
		api.GET("/tasks/:id/subtasks", s.handleListSubtasks)
		api.GET("/tasks/:id/progress", s.handleProgress)
		api.POST("/subtasks/:id/toggle", s.handleToggleSubtask)
		api.PATCH("/subtasks/:id", s.handleRenameSubtask)
		api.DELETE("/subtasks/:id", s.handleRemoveSubtask)
		api.POST("/progress", s.handleProgressBatch)
	}

	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// tenantFromHeader copies the tenant header into the request context. A
// missing header is left for the tenant guard to reject.
func tenantFromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(TenantHeader); id != "" {
			c.Request = c.Request.WithContext(tenant.WithTenant(c.Request.Context(), id))
		}
		c.Next()
	}
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
