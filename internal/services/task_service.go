package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskforge/task-tracker-api/internal/models"
	"github.com/taskforge/task-tracker-api/internal/repository"
	"github.com/taskforge/task-tracker-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidTaskID        = errors.New("invalid task ID format")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
)

// Requester identifies the authenticated caller of a task operation.
type Requester struct {
	UserID string
	Role   models.Role
}

// CanActOnTask is the authorization policy for task mutations: the owner
// or an admin may act, nobody else.
func CanActOnTask(task *models.Task, requester Requester) bool {
	return task.UserID.Hex() == requester.UserID || requester.Role == models.RoleAdmin
}

// TaskService handles task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	OwnerID     string
}

// Create persists a new pending task owned by the caller. Title and
// description are sanitized before storage.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	ownerID, err := primitive.ObjectIDFromHex(input.OwnerID)
	if err != nil {
		return nil, ErrInvalidTaskID
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       validation.SanitizeText(input.Title),
		Description: validation.SanitizeText(input.Description),
		Status:      models.TaskStatusPending,
	}

	if _, err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// List returns every task owned by the given user. An empty result is
// not an error.
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidTaskID
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get fetches a single task by identifier. No ownership filter is
// applied on reads; any authenticated user may fetch a task by id.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, _, err := s.fetch(ctx, id)
	return task, err
}

// UpdateStatus changes a task's status on behalf of the requester. An
// empty status is a no-op update that still refreshes updated_at.
// Existence is checked before permission, so a missing task reports 404
// rather than hiding behind authorization.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, requester Requester) (*models.Task, error) {
	task, objectID, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanActOnTask(task, requester) {
		return nil, ErrTaskPermissionDenied
	}

	if status == "" {
		status = task.Status
	}

	if err := s.taskRepo.UpdateStatus(ctx, objectID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return updated, nil
}

// Delete removes a task on behalf of the requester.
func (s *TaskService) Delete(ctx context.Context, id string, requester Requester) error {
	task, objectID, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	if !CanActOnTask(task, requester) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(ctx, objectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) fetch(ctx context.Context, id string) (*models.Task, primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, primitive.NilObjectID, ErrInvalidTaskID
	}

	task, err := s.taskRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, primitive.NilObjectID, ErrTaskNotFound
		}
		return nil, primitive.NilObjectID, fmt.Errorf("failed to find task: %w", err)
	}
	return task, objectID, nil
}
