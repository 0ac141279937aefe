package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"taskhub/internal/models"
	"taskhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func TestGORMTaskRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMTaskRepository(db)

	task := &models.Task{Title: "First", Description: "one", UserID: "user-1"}
	assert.NoError(t, repo.Create(task))
	assert.NotEmpty(t, task.ID) // ID assigned on create

	got, err := repo.GetByID(task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	got.Title = "First (renamed)"
	assert.NoError(t, repo.Update(got))
	got, err = repo.GetByID(task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First (renamed)", got.Title)

	assert.NoError(t, repo.Delete(task.ID))
	_, err = repo.GetByID(task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMTaskRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMTaskRepository(db)

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = repo.Delete("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMTaskRepository_ListByUserOrder(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMTaskRepository(db)

	titles := []string{"a", "b", "c"}
	for _, title := range titles {
		assert.NoError(t, repo.Create(&models.Task{Title: title, UserID: "user-1"}))
	}
	assert.NoError(t, repo.Create(&models.Task{Title: "other", UserID: "user-2"}))

	tasks, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, tasks, 3)
	for i, title := range titles {
		assert.Equal(t, title, tasks[i].Title)
	}
}

func TestGORMUserRepository_UniqueConstraints(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	assert.NoError(t, repo.Create(user))
	assert.Equal(t, models.RoleUser, user.Role) // default role applied

	// Same username, different email
	err := repo.Create(&models.User{Username: "alice", Email: "alice2@example.com", PasswordHash: "hash"})
	assert.Error(t, err)

	// Same email, different username
	err = repo.Create(&models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "hash"})
	assert.Error(t, err)

	got, err := repo.GetByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
