package repository

import (
	"context"

	"admincore/internal/model"
	"admincore/pkg/pagination"

	"gorm.io/gorm"
)

// ActivityRepository defines the interface for data access of ActivityLog entities
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, params pagination.Params) ([]model.ActivityLog, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository returns a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, params pagination.Params) ([]model.ActivityLog, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ActivityLog
	err := db.Order(params.Order()).
		Offset(params.Offset).
		Limit(params.PerPage).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
