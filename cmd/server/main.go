package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/hkawano/student-task-api/internal/config"
	"github.com/hkawano/student-task-api/internal/database"
	apierrors "github.com/hkawano/student-task-api/internal/errors"
	"github.com/hkawano/student-task-api/internal/handlers"
	"github.com/hkawano/student-task-api/internal/middleware"
	"github.com/hkawano/student-task-api/internal/repository"
	"github.com/hkawano/student-task-api/internal/services"
	"github.com/hkawano/student-task-api/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Wire repositories and services
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenService := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	taskService := services.NewTaskService(taskRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.CORS())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Student Task API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokenService, userRepo)

	// Auth routes, rate-limited per client
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow))
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Catch-all 404 in the shared error envelope
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Not Found")
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
