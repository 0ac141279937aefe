package repositories

import "taskhub/internal/models"

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id string) (*models.Task, error)
	// ListByUser returns the user's tasks in insertion order.
	ListByUser(userID string) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id string) error
}
