package repository

import (
	"context"

	"admincore/internal/model"

	"gorm.io/gorm"
)

// PermissionRepository defines the interface for data access of Permission entities
type PermissionRepository interface {
	Create(ctx context.Context, perm *model.Permission) error
	ListAll(ctx context.Context) ([]model.Permission, error)
	ListIDs(ctx context.Context) ([]uint, error)
	ListByModule(ctx context.Context, module string) ([]model.Permission, error)
	FindByModuleAndType(ctx context.Context, module, permType string) (*model.Permission, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository returns a new instance of PermissionRepository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Create(perm).Error
}

func (r *permissionRepository) ListAll(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("module asc, type asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := GetDB(ctx, r.db).Model(&model.Permission{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *permissionRepository) ListByModule(ctx context.Context, module string) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Where("module = ?", module).Order("type asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// FindByModuleAndType enforces the logical (module, type) uniqueness by
// lookup-before-insert in the generation path.
func (r *permissionRepository) FindByModuleAndType(ctx context.Context, module, permType string) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "module = ? AND type = ?", module, permType).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.Permission{}).Where("id = ?", id).Updates(fields).Error
}
