package repositories

import (
	"fmt"
	"sync"
	"time"

	"taskhub/internal/models"

	"github.com/google/uuid"
)

// MockTaskRepository is an in-memory implementation of TaskRepository.
type MockTaskRepository struct {
	tasks map[string]models.Task
	order []string // task IDs in insertion order
	mu    sync.RWMutex
}

// NewMockTaskRepository creates a new instance of MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[string]models.Task),
	}
}

// Create adds a new task.
func (r *MockTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)
	return nil
}

// GetByID returns a task by its ID.
func (r *MockTaskRepository) GetByID(id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	return &task, nil
}

// ListByUser returns the user's tasks in insertion order.
func (r *MockTaskRepository) ListByUser(userID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taskList := make([]models.Task, 0)
	for _, id := range r.order {
		task, ok := r.tasks[id]
		if ok && task.UserID == userID {
			taskList = append(taskList, task)
		}
	}
	return taskList, nil
}

// Update overwrites an existing task.
func (r *MockTaskRepository) Update(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return fmt.Errorf("task with ID %s not updated: %w", task.ID, ErrNotFound)
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

// Delete removes a task by its ID.
func (r *MockTaskRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task with ID %s not deleted: %w", id, ErrNotFound)
	}
	delete(r.tasks, id)
	for i, taskID := range r.order {
		if taskID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
