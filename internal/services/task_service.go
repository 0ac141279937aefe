package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"taskhub/internal/models"
	"taskhub/internal/repositories"
	"taskhub/pkg/events"
)

// TaskService handles business logic for tasks, including the ownership rule:
// a user may only read-for-edit, update or delete their own tasks.
type TaskService struct {
	taskRepo repositories.TaskRepository
	mqClient *events.Client
}

// NewTaskService creates a new TaskService. mqClient may be nil, in which
// case task lifecycle events are not published.
func NewTaskService(taskRepo repositories.TaskRepository, mqClient *events.Client) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		mqClient: mqClient,
	}
}

// ListTasks returns the tasks owned by user, in insertion order. Admins get
// no wider view: they see only their own tasks, like everyone else.
func (s *TaskService) ListTasks(user *models.User) ([]models.Task, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return s.taskRepo.ListByUser(user.ID)
}

// CreateTask creates a task owned by user.
func (s *TaskService) CreateTask(user *models.User, title, description string) (*models.Task, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("Title", "Title is required")
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		UserID:      user.ID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishTaskEvent("task.created", task)
	return task, nil
}

// GetEditableTask loads a task for mutation by user. It reports
// ErrTaskNotFound if no such task exists and ErrForbidden if the task
// belongs to a different user.
func (s *TaskService) GetEditableTask(user *models.User, taskID string) (*models.Task, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	if task.UserID != user.ID {
		return nil, ErrForbidden
	}
	return task, nil
}

// UpdateTask overwrites the title and description of one of user's tasks.
// The task's ID and owner never change.
func (s *TaskService) UpdateTask(user *models.User, taskID, title, description string) (*models.Task, error) {
	task, err := s.GetEditableTask(user, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("Title", "Title is required")
	}

	task.Title = title
	task.Description = description
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	s.publishTaskEvent("task.updated", task)
	return task, nil
}

// DeleteTask permanently removes one of user's tasks.
func (s *TaskService) DeleteTask(user *models.User, taskID string) error {
	task, err := s.GetEditableTask(user, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	s.publishTaskEvent("task.deleted", task)
	return nil
}

// publishTaskEvent emits a task lifecycle event. Publication is best-effort:
// a broker failure is logged and never fails the request.
func (s *TaskService) publishTaskEvent(event string, task *models.Task) {
	if s.mqClient == nil {
		return
	}

	payload := map[string]interface{}{
		"taskID": task.ID,
		"userID": task.UserID,
		"title":  task.Title,
	}
	if err := s.mqClient.PublishTaskEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for task %s: %v", event, task.ID, err)
	}
}
