package model

import (
	"time"

	"gorm.io/gorm"
)

// UserGroup is a named bundle of per-module action grants. Each group owns
// one UserGroupPermission row per existing Permission; the fan-out
// orchestrator keeps that set complete.
type UserGroup struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	Name        string                `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Code        string                `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description string                `gorm:"type:text" json:"description"`
	Permissions []UserGroupPermission `gorm:"foreignKey:UserGroupID" json:"permissions,omitempty"`
	CreatedBy   *uint                 `json:"created_by"`
	UpdatedBy   *uint                 `json:"updated_by"`
	CreatedAt   time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt        `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the UserGroup model.
func (UserGroup) TableName() string {
	return "user_groups"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (UserGroup) Fillable() []string {
	return []string{"name", "code", "description", "created_by", "updated_by"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (UserGroup) UsesSoftDelete() bool {
	return true
}

// UserGroupPermission is the grant toggle between a group and a permission.
// Absence of a row reads as "not granted", but the orchestrators keep one row
// per permission per group so grants are toggled, not created.
type UserGroupPermission struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserGroupID  uint        `gorm:"index;not null" json:"user_group_id"`
	PermissionID uint        `gorm:"index;not null" json:"permission_id"`
	Permission   *Permission `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
	IsActive     bool        `gorm:"default:false" json:"is_active"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name for the UserGroupPermission model.
func (UserGroupPermission) TableName() string {
	return "user_group_permissions"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (UserGroupPermission) Fillable() []string {
	return []string{"user_group_id", "permission_id", "is_active"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (UserGroupPermission) UsesSoftDelete() bool {
	return false
}
