package repository

import (
	"context"
	"errors"

	"github.com/taskforge/task-tracker-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the unique email index rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user and returns its generated identifier
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task and returns its generated identifier
	Create(ctx context.Context, task *models.Task) (primitive.ObjectID, error)

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)

	// ListByUserID returns all tasks owned by the given user
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)

	// UpdateStatus persists a status change and refreshes updated_at
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) error

	// Delete removes a task
	Delete(ctx context.Context, id primitive.ObjectID) error
}
