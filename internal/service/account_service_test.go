package service

import (
	"context"
	"net/http"
	"testing"

	"admincore/internal/model"
	"admincore/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesUserProfileAndLink(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	group := env.seedGroup(t, "staff", nil)

	result := svc.Register(ctx, RegisterRequest{
		Username:       "jdoe",
		Email:          "jdoe@example.com",
		FirstName:      "Jane",
		LastName:       "Doe",
		ContactNumbers: []string{"555-0100"},
		UserGroupID:    &group.ID,
	})
	require.Equal(t, http.StatusCreated, result.Code, result.Message)
	require.NotNil(t, result.LastID)

	profile, ok := result.Data.(*model.Profile)
	require.True(t, ok)
	assert.Equal(t, "Jane", profile.FirstName)

	var user model.User
	require.NoError(t, env.db.First(&user, "id = ?", profile.UserID).Error)
	assert.Equal(t, model.StatusActive, user.Status)
	assert.True(t, user.IsFirstLogin)
	// No password supplied, so it defaults to the username.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("jdoe")))

	var link model.ProfileUserGroup
	require.NoError(t, env.db.First(&link, "profile_id = ?", profile.ID).Error)
	assert.Equal(t, group.ID, link.UserGroupID)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)

	result := svc.Register(context.Background(), RegisterRequest{Username: "only"})
	assert.Equal(t, http.StatusUnprocessableEntity, result.Code)
}

func TestRegisterRollsBackOnDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	env.seedProfile(t, "taken")

	result := svc.Register(ctx, RegisterRequest{
		Username:  "taken",
		Email:     "second@example.com",
		FirstName: "Second",
		LastName:  "Try",
	})
	require.NotEqual(t, http.StatusCreated, result.Code)

	// The failed registration must leave no partial rows behind.
	var profiles int64
	require.NoError(t, env.db.Model(&model.Profile{}).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)
	var users int64
	require.NoError(t, env.db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestUpdateUserProfileMergesAndRepointsGroup(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	profile := env.seedProfile(t, "erin")
	env.seedGroup(t, "old", profile)
	newGroup := env.seedGroup(t, "new", nil)

	var before model.User
	require.NoError(t, env.db.First(&before, "id = ?", profile.UserID).Error)

	nickname := "Er"
	result := svc.UpdateUserProfile(ctx, UpdateAccountRequest{
		Nickname:    &nickname,
		UserGroupID: &newGroup.ID,
	}, profile.ID)
	require.Equal(t, http.StatusOK, result.Code, result.Message)

	var reloaded model.Profile
	require.NoError(t, env.db.First(&reloaded, "id = ?", profile.ID).Error)
	assert.Equal(t, "Er", reloaded.Nickname)
	assert.Equal(t, "erin", reloaded.FirstName, "unsupplied fields keep their value")

	var after model.User
	require.NoError(t, env.db.First(&after, "id = ?", profile.UserID).Error)
	assert.Equal(t, before.Password, after.Password, "no password supplied, hash untouched")

	var links []model.ProfileUserGroup
	require.NoError(t, env.db.Where("profile_id = ?", profile.ID).Find(&links).Error)
	require.Len(t, links, 1, "membership is repointed, not duplicated")
	assert.Equal(t, newGroup.ID, links[0].UserGroupID)
}

func TestUpdateUserProfileRehashesSuppliedPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	profile := env.seedProfile(t, "frank")

	password := "s3cret"
	result := svc.UpdateUserProfile(ctx, UpdateAccountRequest{Password: &password}, profile.ID)
	require.Equal(t, http.StatusOK, result.Code, result.Message)

	var user model.User
	require.NoError(t, env.db.First(&user, "id = ?", profile.UserID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))

	// An empty string is treated like nil: keep the current hash.
	empty := ""
	result = svc.UpdateUserProfile(ctx, UpdateAccountRequest{Password: &empty}, profile.ID)
	require.Equal(t, http.StatusOK, result.Code)
	var unchanged model.User
	require.NoError(t, env.db.First(&unchanged, "id = ?", profile.UserID).Error)
	assert.Equal(t, user.Password, unchanged.Password)
}

func TestUpdateUserProfileMissingProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)

	result := svc.UpdateUserProfile(context.Background(), UpdateAccountRequest{}, 404)
	assert.Equal(t, http.StatusNotFound, result.Code)
}

func TestDeactivateUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	profile := env.seedProfile(t, "gone")
	actor := uint(1)

	result := svc.DeactivateUser(ctx, profile.ID, &actor)
	require.Equal(t, http.StatusNoContent, result.Code, result.Message)

	var user model.User
	require.NoError(t, env.db.First(&user, "id = ?", profile.UserID).Error)
	assert.Equal(t, model.StatusInactive, user.Status)

	var visible int64
	require.NoError(t, env.db.Model(&model.Profile{}).Where("id = ?", profile.ID).Count(&visible).Error)
	assert.Zero(t, visible, "profile is soft-deleted")

	var tombstone model.Profile
	require.NoError(t, env.db.Unscoped().First(&tombstone, "id = ?", profile.ID).Error)
	require.NotNil(t, tombstone.UpdatedBy)
	assert.Equal(t, actor, *tombstone.UpdatedBy)
}

func TestGetAccountAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := env.accountService(t)
	ctx := context.Background()

	p1 := env.seedProfile(t, "harry")
	env.seedProfile(t, "irene")

	result := svc.GetAccount(ctx, p1.ID)
	require.Equal(t, http.StatusOK, result.Code)
	got := result.Data.(*model.Profile)
	require.NotNil(t, got.User)
	assert.Equal(t, "harry", got.User.Username)

	result = svc.GetAccount(ctx, 404)
	assert.Equal(t, http.StatusNotFound, result.Code)

	result = svc.ListAccounts(ctx, pagination.Normalize(1, 10, "id", "asc", nil), "ire")
	require.Equal(t, http.StatusOK, result.Code)
	data := result.Data.(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
	items := data["items"].([]model.Profile)
	require.Len(t, items, 1)
	assert.Equal(t, "irene", items[0].FirstName)
}
