package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the audited identity record that owns everything a person does
// in the admin panel. Exactly one Profile exists per User; CreatedBy and
// UpdatedBy point back at the acting Profile.
type Profile struct {
	ID             uint                          `gorm:"primaryKey" json:"id"`
	Avatar         string                        `gorm:"type:varchar(255)" json:"avatar"`
	FirstName      string                        `gorm:"type:varchar(255);not null" json:"first_name"`
	MiddleName     string                        `gorm:"type:varchar(255)" json:"middle_name"`
	LastName       string                        `gorm:"type:varchar(255);not null" json:"last_name"`
	Nickname       string                        `gorm:"type:varchar(255)" json:"nickname"`
	Type           string                        `gorm:"type:varchar(50)" json:"type"`
	ContactNumbers datatypes.JSONSlice[string]   `json:"contact_numbers"`
	UserID         uint                          `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User                         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserGroupLink  *ProfileUserGroup             `gorm:"foreignKey:ProfileID" json:"user_group_link,omitempty"`
	CreatedBy      *uint                         `json:"created_by"`
	UpdatedBy      *uint                         `json:"updated_by"`
	CreatedAt      time.Time                     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                     `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt                `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (Profile) Fillable() []string {
	return []string{"avatar", "first_name", "middle_name", "last_name", "nickname", "type", "contact_numbers", "user_id", "created_by", "updated_by"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (Profile) UsesSoftDelete() bool {
	return true
}

// ProfileUserGroup links a Profile to its UserGroup. A profile holds at most
// one active membership, so this behaves as a has-one from Profile.
type ProfileUserGroup struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProfileID   uint       `gorm:"index;not null" json:"profile_id"`
	UserGroupID uint       `gorm:"index;not null" json:"user_group_id"`
	UserGroup   *UserGroup `gorm:"foreignKey:UserGroupID" json:"user_group,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name for the ProfileUserGroup model.
func (ProfileUserGroup) TableName() string {
	return "profile_user_groups"
}

// Fillable lists the columns writable through the generic CRUD executor.
func (ProfileUserGroup) Fillable() []string {
	return []string{"profile_id", "user_group_id"}
}

// UsesSoftDelete reports whether deletes tombstone rather than remove rows.
func (ProfileUserGroup) UsesSoftDelete() bool {
	return false
}
