package main

import (
	"log"
	"log/slog"
	"os"

	"taskly-be/internal/cache"
	"taskly-be/internal/config"
	"taskly-be/internal/controllers"
	"taskly-be/internal/database"
	"taskly-be/internal/email"
	"taskly-be/internal/jwt"
	"taskly-be/internal/middleware"
	"taskly-be/internal/repository"
	"taskly-be/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("failed to connect to Redis, continuing without cache", "error", err)
			cacheClient = nil
		} else {
			logger.Info("connected to Redis cache")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)

	// Initialize the notification sender (no-op without an API key)
	sender := email.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom)

	// Initialize services
	userService := service.NewUserService(userRepo, jwtService, cacheClient, sender, cfg.BcryptCost, logger)
	taskService := service.NewTaskService(taskRepo)

	// Initialize controllers
	userController := controllers.NewUserController(userService)
	avatarController := controllers.NewAvatarController(userService, cfg.AvatarMaxBytes)
	taskController := controllers.NewTaskController(taskService)

	// Create a Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	auth := middleware.AuthMiddleware(jwtService, userRepo)

	// Account routes
	router.POST("/users", userController.Signup)
	router.POST("/users/login", userController.Login)
	router.POST("/users/logout", auth, userController.Logout)
	router.POST("/users/logoutAll", auth, userController.LogoutAll)
	router.GET("/users/me", auth, userController.GetMe)
	router.GET("/users/:id", userController.GetByID)
	router.PATCH("/users/me", auth, userController.UpdateMe)
	router.DELETE("/users/me", auth, userController.DeleteMe)

	// Avatar routes
	router.POST("/users/me/avatar", auth, avatarController.Upload)
	router.DELETE("/users/me/avatar", auth, avatarController.Delete)
	router.GET("/users/:id/avatar", avatarController.Get)

	// Task routes - all owner-scoped
	router.POST("/tasks", auth, taskController.Create)
	router.GET("/tasks", auth, taskController.List)
	router.GET("/tasks/:id", auth, taskController.Get)
	router.PATCH("/tasks/:id", auth, taskController.Update)
	router.DELETE("/tasks/:id", auth, taskController.Delete)

	logger.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
