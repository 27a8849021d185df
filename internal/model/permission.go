package model

import (
	"time"
)

// Action types, the unit of grantable capability per module.
const (
	ActionCreate = "create"
	ActionView   = "view"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ActionTypes returns every grantable action in declaration order.
func ActionTypes() []string {
	return []string{ActionCreate, ActionView, ActionUpdate, ActionDelete}
}

// Permission grants one action type within one module. Module is always the
// canonical snake_case plural form (see pkg/naming); the (module, type) pair
// is kept unique by lookup-before-insert in the generation path.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Module    string    `gorm:"type:varchar(255);not null;index" json:"module"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (Permission) Fillable() []string {
	return []string{"module", "type", "is_active"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (Permission) UsesSoftDelete() bool {
	return false
}
