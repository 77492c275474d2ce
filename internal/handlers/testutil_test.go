package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-tracker-api/internal/auth"
	apierrors "github.com/taskforge/task-tracker-api/internal/errors"
	"github.com/taskforge/task-tracker-api/internal/middleware"
	"github.com/taskforge/task-tracker-api/internal/models"
	"github.com/taskforge/task-tracker-api/internal/repository"
	"github.com/taskforge/task-tracker-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory repositories standing in for Mongo, mirroring its observable
// behavior (generated ObjectIDs, timestamps, unique email).

type memUserRepo struct {
	users map[primitive.ObjectID]models.User
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

type memTaskRepo struct {
	tasks map[primitive.ObjectID]models.Task
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

// testEnv wires handlers, services, and fakes behind the same routes the
// server registers, minus rate limiting.
type testEnv struct {
	router      *gin.Engine
	userRepo    *memUserRepo
	taskRepo    *memTaskRepo
	authService *services.AuthService
	tokens      *auth.TokenManager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := &memUserRepo{users: make(map[primitive.ObjectID]models.User)}
	taskRepo := &memTaskRepo{tasks: make(map[primitive.ObjectID]models.Task)}

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	authService := services.NewAuthService(userRepo, hasher, tokens)
	taskService := services.NewTaskService(taskRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	r.GET("/health", Health)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
	}

	r.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)

	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth(tokens))
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PATCH("/:id", taskHandler.UpdateStatus)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Endpoint not found")
	})

	return &testEnv{
		router:      r,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		authService: authService,
		tokens:      tokens,
	}
}

// registerUser creates an account through the service and returns the
// user together with a fresh token.
func (env *testEnv) registerUser(t *testing.T, email, password, name string) (*models.User, string) {
	t.Helper()
	user, token, err := env.authService.Register(context.Background(), services.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	require.NoError(t, err)
	return user, token
}

// promoteToAdmin rewrites a stored user's role and issues a matching
// token; there is no public endpoint that does this.
func (env *testEnv) promoteToAdmin(t *testing.T, user *models.User) string {
	t.Helper()
	stored := env.userRepo.users[user.ID]
	stored.Role = models.RoleAdmin
	env.userRepo.users[user.ID] = stored

	token, err := env.tokens.Issue(user.ID.Hex(), models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(t *testing.T, method, url, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
