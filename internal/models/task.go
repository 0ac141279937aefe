package models

import "time"

// Task is a single to-do item belonging to exactly one user. The owner is
// fixed at creation and never changes.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
