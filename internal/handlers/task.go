package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-tracker-api/internal/dto"
	apierrors "github.com/taskforge/task-tracker-api/internal/errors"
	"github.com/taskforge/task-tracker-api/internal/middleware"
	"github.com/taskforge/task-tracker-api/internal/models"
	"github.com/taskforge/task-tracker-api/internal/services"
	"github.com/taskforge/task-tracker-api/internal/validation"
)

// TaskHandler coordinates task CRUD HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Create persists a new pending task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if result := validation.ValidateTaskCreation(req.Title, req.Description); !result.Valid {
		apierrors.ValidationFailed(c, result.Errors)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		log.Printf("Create task error: %v", err)
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// List returns every task owned by the caller.
func (h *TaskHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID)
	if err != nil {
		log.Printf("List tasks error: %v", err)
		apierrors.InternalError(c, "Failed to retrieve tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// Get returns a single task by identifier.
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "Failed to retrieve task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateStatus changes a task's status on behalf of the caller.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Status string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if result := validation.ValidateTaskStatusUpdate(req.Status); !result.Valid {
		apierrors.ValidationFailed(c, result.Errors)
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), models.TaskStatus(req.Status), requester)
	if err != nil {
		h.respondTaskError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// Delete removes a task on behalf of the caller.
func (h *TaskHandler) Delete(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), c.Param("id"), requester); err != nil {
		h.respondTaskError(c, err, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidTaskID):
		apierrors.BadRequest(c, "Invalid task ID format")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, "You do not have permission to modify this task")
	default:
		log.Printf("Task handler error: %v", err)
		apierrors.InternalError(c, fallback)
	}
}

func currentRequester(c *gin.Context) (services.Requester, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return services.Requester{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return services.Requester{}, false
	}
	return services.Requester{UserID: userID, Role: role}, true
}
