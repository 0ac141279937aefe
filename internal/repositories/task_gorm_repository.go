package repositories

import (
	"errors"
	"fmt"

	"taskhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create creates a new task in the database.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a single task by its ID from the database.
func (r *GORMTaskRepository) GetByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %s: %w", id, err)
	}
	return &task, nil
}

// ListByUser retrieves all tasks owned by the given user, oldest first.
func (r *GORMTaskRepository) ListByUser(userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %s: %w", userID, err)
	}
	return tasks, nil
}

// Update overwrites an existing task in the database.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Save(task) // Save updates all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save does not return ErrRecordNotFound when nothing
		// matched, so check RowsAffected.
		return fmt.Errorf("task with ID %s not updated: %w", task.ID, ErrNotFound)
	}
	return nil
}

// Delete permanently removes a task by its ID from the database.
func (r *GORMTaskRepository) Delete(id string) error {
	res := r.db.Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s not deleted: %w", id, ErrNotFound)
	}
	return nil
}
