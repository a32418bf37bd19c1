package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/Immortalsoul21/StackForge/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Immortalsoul21/StackForge/internal/auth"
	"github.com/Immortalsoul21/StackForge/internal/cache"
	"github.com/Immortalsoul21/StackForge/internal/config"
	"github.com/Immortalsoul21/StackForge/internal/db"
	"github.com/Immortalsoul21/StackForge/internal/handler"
	"github.com/Immortalsoul21/StackForge/internal/model"
	"github.com/Immortalsoul21/StackForge/internal/repository"
	"github.com/Immortalsoul21/StackForge/internal/router"
	"github.com/Immortalsoul21/StackForge/internal/service"
)

// @title StackForge API
// @version 1.0
// @description Task management API with JWT authentication and per-user task CRUD.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Task{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Task{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cacheClient)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	healthHandler := handler.NewHealthHandler()

	access := router.NewAccessMiddleware(authService, tokenStore)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		taskHandler,
		healthHandler,
		access,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/api-docs/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/api-docs/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
