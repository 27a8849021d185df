package repository

import (
	"context"
	"errors"

	"admincore/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for data access of Profile entities
// and the profile-to-group link.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id uint) (*model.Profile, error)
	GetWithUser(ctx context.Context, id uint) (*model.Profile, error)
	// GetWithPermissions loads the profile with its group membership, the
	// group's full permission-link set and each link's target permission:
	// everything the resolution engine needs in one read.
	GetWithPermissions(ctx context.Context, id uint) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	// SaveGroupLink repoints the profile's single group membership, creating
	// the link row when none exists yet.
	SaveGroupLink(ctx context.Context, profileID, groupID uint) (*model.ProfileUserGroup, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetWithUser(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetWithPermissions(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	err := GetDB(ctx, r.db).
		Preload("UserGroupLink.UserGroup.Permissions.Permission").
		First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *profileRepository) SaveGroupLink(ctx context.Context, profileID, groupID uint) (*model.ProfileUserGroup, error) {
	db := GetDB(ctx, r.db)

	var link model.ProfileUserGroup
	err := db.First(&link, "profile_id = ?", profileID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = model.ProfileUserGroup{ProfileID: profileID, UserGroupID: groupID}
		if err := db.Create(&link).Error; err != nil {
			return nil, err
		}
		return &link, nil
	case err != nil:
		return nil, err
	}

	link.UserGroupID = groupID
	if err := db.Save(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
