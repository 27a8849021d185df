package model

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log entry types
const (
	ActivityTypeCreate = "create"
	ActivityTypeUpdate = "update"
	ActivityTypeDelete = "delete"
	ActivityTypeLogin  = "login"
)

// ActivityLog tracks who did what and when for critical admin changes.
// Properties carries the structured payload of the action.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Module      string            `gorm:"type:varchar(255);not null;index" json:"module"`
	Description string            `gorm:"type:text" json:"description"`
	Status      string            `gorm:"type:varchar(50)" json:"status"`
	Type        string            `gorm:"type:varchar(50);index" json:"type"`
	Properties  datatypes.JSONMap `json:"properties"`
	CreatedBy   *uint             `json:"created_by"`
	UpdatedBy   *uint             `json:"updated_by"`
	CreatedAt   time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (ActivityLog) Fillable() []string {
	return []string{"module", "description", "status", "type", "properties", "created_by", "updated_by"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (ActivityLog) UsesSoftDelete() bool {
	return false
}
