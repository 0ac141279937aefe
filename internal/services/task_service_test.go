package services_test

import (
	"testing"

	"taskhub/internal/models"
	"taskhub/internal/repositories"
	"taskhub/internal/services"

	"github.com/stretchr/testify/assert"
)

func newTaskService() (*services.TaskService, *repositories.MockTaskRepository) {
	repo := repositories.NewMockTaskRepository()
	return services.NewTaskService(repo, nil), repo
}

func TestTaskService_CreateTask(t *testing.T) {
	service, _ := newTaskService()
	user := &models.User{ID: "user-1", Username: "alice"}

	task, err := service.CreateTask(user, "Buy milk", "2 liters")
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, user.ID, task.UserID)

	// Empty title is rejected with a field-level validation error
	_, err = service.CreateTask(user, "   ", "whitespace only")
	ve, ok := services.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "Title")

	// Anonymous callers cannot create tasks
	_, err = service.CreateTask(nil, "Buy milk", "")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestTaskService_ListTasks(t *testing.T) {
	service, _ := newTaskService()
	alice := &models.User{ID: "user-1", Username: "alice"}
	bob := &models.User{ID: "user-2", Username: "bob"}

	first, err := service.CreateTask(alice, "First", "")
	assert.NoError(t, err)
	second, err := service.CreateTask(alice, "Second", "")
	assert.NoError(t, err)
	_, err = service.CreateTask(bob, "Bob's task", "")
	assert.NoError(t, err)

	// Each user sees exactly their own tasks, in insertion order
	tasks, err := service.ListTasks(alice)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	tasks, err = service.ListTasks(bob)
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Bob's task", tasks[0].Title)

	// Deleted tasks disappear from the list
	assert.NoError(t, service.DeleteTask(alice, first.ID))
	tasks, err = service.ListTasks(alice)
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, second.ID, tasks[0].ID)

	_, err = service.ListTasks(nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestTaskService_Ownership(t *testing.T) {
	service, _ := newTaskService()
	alice := &models.User{ID: "user-1", Username: "alice"}
	bob := &models.User{ID: "user-2", Username: "bob"}

	task, err := service.CreateTask(alice, "Alice's task", "private")
	assert.NoError(t, err)

	// Another user can neither read-for-edit, update nor delete the task
	_, err = service.GetEditableTask(bob, task.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = service.UpdateTask(bob, task.ID, "Hijacked", "")
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = service.DeleteTask(bob, task.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// A failed takeover leaves the task untouched for its owner
	got, err := service.GetEditableTask(alice, task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Alice's task", got.Title)
}

func TestTaskService_NotFound(t *testing.T) {
	service, _ := newTaskService()
	alice := &models.User{ID: "user-1", Username: "alice"}

	_, err := service.GetEditableTask(alice, "missing-id")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	_, err = service.UpdateTask(alice, "missing-id", "Title", "")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	err = service.DeleteTask(alice, "missing-id")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
}

func TestTaskService_UpdateTask(t *testing.T) {
	service, _ := newTaskService()
	alice := &models.User{ID: "user-1", Username: "alice"}

	task, err := service.CreateTask(alice, "Original", "before")
	assert.NoError(t, err)

	updated, err := service.UpdateTask(alice, task.ID, "Renamed", "after")
	assert.NoError(t, err)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, alice.ID, updated.UserID) // owner never changes
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "after", updated.Description)

	// Empty title is rejected on update too
	_, err = service.UpdateTask(alice, task.ID, "", "whatever")
	_, ok := services.AsValidationError(err)
	assert.True(t, ok)
}
