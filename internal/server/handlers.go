package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type createTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	ProjectID   string   `json:"project_id" binding:"required"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Assignees   []string `json:"assignees"`
	Tags        []string `json:"tags"`
	MilestoneID *string  `json:"milestone_id"`
}

type createTodoRequest struct {
	Title         string  `json:"title" binding:"required"`
	ScheduledDate *string `json:"scheduled_date"`
}

type updateTodoRequest struct {
	Status string `json:"status" binding:"required"`
}

type createDependencyRequest struct {
	BlockingTaskID string `json:"blocking_task_id" binding:"required"`
	BlockedTaskID  string `json:"blocked_task_id" binding:"required"`
}

type linkRequest struct {
	TodoID string `json:"todo_id" binding:"required"`
	TaskID string `json:"task_id" binding:"required"`
}

type relinkRequest struct {
	TodoID string `json:"todo_id" binding:"required"`
}

type subtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type progressBatchRequest struct {
	TaskIDs []string `json:"task_ids"`
}

// Tasks

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task := &types.Task{
		Title:       req.Title,
		ProjectID:   req.ProjectID,
		Status:      req.Status,
		Priority:    req.Priority,
		Assignees:   req.Assignees,
		Tags:        req.Tags,
		MilestoneID: req.MilestoneID,
	}
	if err := s.svc.Tasks.Create(c.Request.Context(), task); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, task)
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.Tasks.List(c.Request.Context(), types.TaskFilter{
		ProjectID: c.Query("project"),
		Status:    c.Query("status"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.svc.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch board.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	task, err := s.svc.Tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dependencies

func (s *Server) handleCreateDependency(c *gin.Context) {
	var req createDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := s.svc.Dependencies.Create(c.Request.Context(), req.BlockingTaskID, req.BlockedTaskID)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"dependency_id": id})
}

func (s *Server) handleRemoveDependency(c *gin.Context) {
	if err := s.svc.Dependencies.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAvailableBlockers(c *gin.Context) {
	tasks, err := s.svc.Dependencies.AvailableBlockers(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

func (s *Server) handleBlockers(c *gin.Context) {
	deps, err := s.svc.Dependencies.Blockers(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, deps)
}

func (s *Server) handleBlocking(c *gin.Context) {
	deps, err := s.svc.Dependencies.Blocking(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, deps)
}

func (s *Server) handleReadyTasks(c *gin.Context) {
	tasks, err := s.svc.Dependencies.Ready(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

// Todos

func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	todo := &types.Todo{Title: req.Title, ScheduledDate: req.ScheduledDate}
	if err := s.svc.Todos.Create(c.Request.Context(), todo); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, todo)
}

func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.svc.Todos.List(c.Request.Context(), types.TodoFilter{
		ScheduledDate: c.Query("date"),
		Status:        c.Query("status"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, todos)
}

func (s *Server) handleGetTodo(c *gin.Context) {
	todo, err := s.svc.Todos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, todo)
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	todo, err := s.svc.Todos.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, todo)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	if err := s.svc.Todos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTodoTasks(c *gin.Context) {
	tasks, err := s.svc.Links.TasksForTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

// Links

func (s *Server) handleLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.svc.Links.Link(c.Request.Context(), req.TodoID, req.TaskID); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"todo_id": req.TodoID, "task_id": req.TaskID})
}

func (s *Server) handleParent(c *gin.Context) {
	link, err := s.svc.Links.Parent(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, link)
}

func (s *Server) handleRelink(c *gin.Context) {
	var req relinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	taskID := c.Param("taskId")
	if err := s.svc.Links.Relink(c.Request.Context(), req.TodoID, taskID); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"todo_id": req.TodoID, "task_id": taskID})
}

func (s *Server) handleUnlink(c *gin.Context) {
	if err := s.svc.Links.Unlink(c.Request.Context(), c.Param("taskId")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subtasks

func (s *Server) handleCreateSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := s.svc.Subtasks.Create(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"subtask_id": id})
}

func (s *Server) handleListSubtasks(c *gin.Context) {
	subtasks, err := s.svc.Subtasks.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, subtasks)
}

func (s *Server) handleToggleSubtask(c *gin.Context) {
	subtask, err := s.svc.Subtasks.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, subtask)
}

func (s *Server) handleRenameSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.svc.Subtasks.Update(c.Request.Context(), c.Param("id"), req.Title); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveSubtask(c *gin.Context) {
	if err := s.svc.Subtasks.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleProgress(c *gin.Context) {
	progress, err := s.svc.Subtasks.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, progress)
}

func (s *Server) handleProgressBatch(c *gin.Context) {
	var req progressBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	results, err := s.svc.Subtasks.ProgressBatch(c.Request.Context(), req.TaskIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, results)
}
