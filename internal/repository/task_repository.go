package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Immortalsoul21/StackForge/internal/model"
)

// TaskRepository defines task persistence operations. Every method is scoped
// to the owning user; there is no way to reach another user's rows.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	UpdateByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// ListByOwner lists all tasks of the owner, most recent first.
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByOwnerAndID finds a task by ID within the owner's rows.
func (r *taskRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateByOwnerAndID applies fields to the row matching (id, owner) in a
// single conditional UPDATE and returns the number of rows affected. The
// ownership check and the write are one statement, so ownership cannot change
// between them.
func (r *taskRepository) UpdateByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// DeleteByOwnerAndID deletes the row matching (id, owner) and returns the
// number of rows affected. Zero is not an error.
func (r *taskRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Task{})
	return res.RowsAffected, res.Error
}
