package model

import (
	"time"
)

// User status values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents the bare login credential. The audited identity lives on
// Profile; deactivating a user (status = inactive) is the "delete" semantic
// at the account level, so User rows are never soft-deleted.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Status       string     `gorm:"type:varchar(20);not null;default:active" json:"status"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	IsFirstLogin bool       `gorm:"default:true" json:"is_first_login"`
	APIToken     *string    `gorm:"type:varchar(255)" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (User) Fillable() []string {
	return []string{"username", "email", "password", "status", "is_admin", "is_first_login", "api_token", "last_login_at"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (User) UsesSoftDelete() bool {
	return false
}
