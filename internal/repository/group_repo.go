package repository

import (
	"context"

	"admincore/internal/model"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for data access of UserGroup entities
// and their permission-link rows.
type GroupRepository interface {
	Create(ctx context.Context, group *model.UserGroup) error
	GetByID(ctx context.Context, id uint) (*model.UserGroup, error)
	GetWithPermissions(ctx context.Context, id uint) (*model.UserGroup, error)
	Update(ctx context.Context, group *model.UserGroup) error
	ListPermissionRows(ctx context.Context, groupID uint) ([]model.UserGroupPermission, error)
	SetPermissionActive(ctx context.Context, rowID uint, active bool) error
	// GroupIDsMissingPermission returns ids of groups lacking a link row for
	// the permission, so new permissions can be fanned out retroactively.
	GroupIDsMissingPermission(ctx context.Context, permissionID uint) ([]uint, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository returns a new instance of GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.UserGroup) error {
	return GetDB(ctx, r.db).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*model.UserGroup, error) {
	var group model.UserGroup
	if err := GetDB(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetWithPermissions(ctx context.Context, id uint) (*model.UserGroup, error) {
	var group model.UserGroup
	if err := GetDB(ctx, r.db).Preload("Permissions.Permission").First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *model.UserGroup) error {
	return GetDB(ctx, r.db).Save(group).Error
}

func (r *groupRepository) ListPermissionRows(ctx context.Context, groupID uint) ([]model.UserGroupPermission, error) {
	var rows []model.UserGroupPermission
	if err := GetDB(ctx, r.db).Where("user_group_id = ?", groupID).Order("permission_id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *groupRepository) SetPermissionActive(ctx context.Context, rowID uint, active bool) error {
	return GetDB(ctx, r.db).
		Model(&model.UserGroupPermission{}).
		Where("id = ?", rowID).
		Update("is_active", active).Error
}

func (r *groupRepository) GroupIDsMissingPermission(ctx context.Context, permissionID uint) ([]uint, error) {
	db := GetDB(ctx, r.db)
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.UserGroupPermission{}).
		Select("user_group_id").
		Where("permission_id = ?", permissionID)

	var ids []uint
	err := db.Model(&model.UserGroup{}).
		Where("id NOT IN (?)", sub).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
