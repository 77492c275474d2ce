package services

import (
	"context"
	"time"

	"github.com/taskforge/task-tracker-api/internal/models"
	"github.com/taskforge/task-tracker-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Mongo has no embeddable test equivalent,
// so service and handler tests run against these instead.

type memUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := user
	return &u, nil
}

func (r *memUserRepo) delete(id primitive.ObjectID) {
	delete(r.users, id)
}

type memTaskRepo struct {
	tasks map[primitive.ObjectID]models.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return task.ID, nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := task
	return &t, nil
}

func (r *memTaskRepo) ListByUserID(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	tasks := []models.Task{}
	for _, task := range r.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *memTaskRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.TaskStatus) error {
	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	r.tasks[id] = task
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
