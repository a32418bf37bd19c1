package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/Immortalsoul21/StackForge/internal/errors"
	"github.com/Immortalsoul21/StackForge/internal/model"
	"github.com/Immortalsoul21/StackForge/internal/repository"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
}

// TaskService exposes task CRUD operations. The owner identity comes from the
// authenticated request, never from client input.
type TaskService interface {
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	GetTask(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, ownerID, id uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// ListTasks returns all tasks of the owner, most recent first.
func (s *taskService) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	return s.taskRepo.ListByOwner(ctx, ownerID)
}

// GetTask returns a single task. A task owned by someone else yields the same
// not-found error as a nonexistent one.
func (s *taskService) GetTask(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// CreateTask persists a new task for the owner. Status defaults to todo.
func (s *taskService) CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	status := in.Status
	if status == "" {
		status = model.TaskStatusTodo
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      ownerID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to the row matching (id, owner). Zero
// matched rows is an error, unlike DeleteTask.
func (s *taskService) UpdateTask(ctx context.Context, ownerID, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrEmptyUpdate
	}

	affected, err := s.taskRepo.UpdateByOwnerAndID(ctx, ownerID, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return nil, apperrors.ErrTaskNotOwned
	}

	task, err := s.taskRepo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotOwned
		}
		return nil, fmt.Errorf("reload task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the row matching (id, owner). Deleting a row that does
// not exist is a success, keeping the operation idempotent.
func (s *taskService) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.taskRepo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
