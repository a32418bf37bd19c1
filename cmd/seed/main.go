package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Immortalsoul21/StackForge/internal/config"
	"github.com/Immortalsoul21/StackForge/internal/db"
	"github.com/Immortalsoul21/StackForge/internal/model"
	"github.com/Immortalsoul21/StackForge/internal/repository"
)

const (
	demoName     = "Demo User"
	demoEmail    = "demo@stackforge.dev"
	demoPassword = "password123"
)

var demoTasks = []model.Task{
	{Title: "Explore the dashboard", Description: "Click around and get familiar with the UI", Status: model.TaskStatusCompleted},
	{Title: "Create your first task", Description: "Use the form on the dashboard", Status: model.TaskStatusInProgress},
	{Title: "Invite your team", Status: model.TaskStatusTodo},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	ctx := context.Background()

	user, created, err := seedUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	if !created {
		log.Printf("Demo user %s already exists, skipping task seed", demoEmail)
		return
	}

	for i := range demoTasks {
		task := demoTasks[i]
		task.UserID = user.ID
		if err := taskRepo.Create(ctx, &task); err != nil {
			log.Fatalf("Failed to seed task %q: %v", task.Title, err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Demo user: %s / %s", demoEmail, demoPassword)
	log.Printf("  - Tasks created: %d", len(demoTasks))
}

// seedUser creates the demo user unless it already exists.
func seedUser(ctx context.Context, repo repository.UserRepository) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user := &model.User{
		Name:         demoName,
		Email:        demoEmail,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
