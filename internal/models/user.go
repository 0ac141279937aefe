package models

import "time"

// Role controls what a user is allowed to administer. Regular users and
// admins see the same task list; the role exists for account management.
type Role = string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never the plaintext
	Role         Role      `json:"role" gorm:"type:varchar(20);default:user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
