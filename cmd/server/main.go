package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/taskforge/task-tracker-api/internal/auth"
	"github.com/taskforge/task-tracker-api/internal/config"
	"github.com/taskforge/task-tracker-api/internal/database"
	apierrors "github.com/taskforge/task-tracker-api/internal/errors"
	"github.com/taskforge/task-tracker-api/internal/handlers"
	"github.com/taskforge/task-tracker-api/internal/middleware"
	"github.com/taskforge/task-tracker-api/internal/repository"
	"github.com/taskforge/task-tracker-api/internal/services"
)

func main() {
	// Load .env if present, then configuration
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB and create indexes
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Wire repositories, services, and handlers
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry)

	authService := services.NewAuthService(userRepo, hasher, tokens)
	taskService := services.NewTaskService(taskRepo)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Rate limiters: a general budget for every route, a stricter one for
	// the pre-authentication endpoints
	generalLimiter := middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax,
		"Too many requests, please try again later")
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.AuthRateLimitMax,
		"Too many authentication attempts, please try again later")

	r := gin.Default()
	r.Use(generalLimiter.Middleware())

	r.GET("/health", handlers.Health)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authLimiter.Middleware(), authHandler.Register)
		authRoutes.POST("/login", authLimiter.Middleware(), authHandler.Login)
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

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until interrupted, then drain in-flight requests and release
	// the Mongo connection
	<-ctx.Done()
	stop()
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("Database close error: %v", err)
	}
	log.Println("Server stopped")
}
