package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"admincore/internal/apperrors"
	"admincore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	protos := model.All()
	models := make([]interface{}, 0, len(protos))
	for _, p := range protos {
		models = append(models, p)
	}
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func TestExecutorCreateAndDelete(t *testing.T) {
	db := newTestDB(t)
	exec := NewExecutor(db)
	ctx := context.Background()

	perm := &model.Permission{Module: "users", Type: model.ActionView, IsActive: true}
	require.NoError(t, exec.Create(ctx, perm))
	assert.NotZero(t, perm.ID)

	require.NoError(t, exec.Delete(ctx, perm, nil))

	var count int64
	require.NoError(t, db.Model(&model.Permission{}).Count(&count).Error)
	assert.Zero(t, count, "permissions hard-delete")
}

func TestExecutorSoftDeleteStampsActor(t *testing.T) {
	db := newTestDB(t)
	exec := NewExecutor(db)
	ctx := context.Background()

	group := &model.UserGroup{Name: "Editors", Code: "editors"}
	require.NoError(t, exec.Create(ctx, group))

	actor := uint(7)
	require.NoError(t, exec.Delete(ctx, group, &actor))

	var visible int64
	require.NoError(t, db.Model(&model.UserGroup{}).Count(&visible).Error)
	assert.Zero(t, visible, "soft-deleted group must be hidden from default queries")

	var tombstone model.UserGroup
	require.NoError(t, db.Unscoped().First(&tombstone, "id = ?", group.ID).Error)
	require.NotNil(t, tombstone.UpdatedBy)
	assert.Equal(t, actor, *tombstone.UpdatedBy)
	assert.True(t, tombstone.DeletedAt.Valid)
}

func TestExecutorCreateManyFiltersFillable(t *testing.T) {
	db := newTestDB(t)
	exec := NewExecutor(db)
	ctx := context.Background()

	require.NoError(t, exec.CreateMany(ctx, &model.Permission{}, nil), "empty input is a no-op success")

	rows := []map[string]interface{}{
		{"module": "users", "type": model.ActionCreate, "is_active": true},
		{"module": "users", "type": model.ActionView, "is_active": false},
	}
	require.NoError(t, exec.CreateMany(ctx, &model.Permission{}, rows))

	var count int64
	require.NoError(t, db.Model(&model.Permission{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestExecutorUpdateRejectsUnknownColumn(t *testing.T) {
	db := newTestDB(t)
	exec := NewExecutor(db)
	ctx := context.Background()

	perm := &model.Permission{Module: "users", Type: model.ActionView, IsActive: true}
	require.NoError(t, exec.Create(ctx, perm))

	err := exec.Update(ctx, perm, map[string]interface{}{"nonexistent": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidColumn)

	require.NoError(t, exec.Update(ctx, perm, map[string]interface{}{"is_active": false}))
	var reloaded model.Permission
	require.NoError(t, db.First(&reloaded, "id = ?", perm.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, "users", reloaded.Module, "unsupplied fields keep their value")
}

func TestExecutorDeleteManyValidatesColumn(t *testing.T) {
	db := newTestDB(t)
	exec := NewExecutor(db)
	ctx := context.Background()

	err := exec.DeleteMany(ctx, &model.Permission{}, []uint{1, 2}, "not_a_column")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidColumn)

	require.NoError(t, exec.DeleteMany(ctx, &model.Permission{}, nil, "id"), "empty key list is a no-op")

	perm := &model.Permission{Module: "users", Type: model.ActionView}
	require.NoError(t, exec.Create(ctx, perm))
	require.NoError(t, exec.DeleteMany(ctx, &model.Permission{}, []uint{perm.ID}, "id"))

	var count int64
	require.NoError(t, db.Model(&model.Permission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResolverShowValidatesColumn(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db)
	ctx := context.Background()

	_, err := resolver.Show(ctx, &model.UserGroup{}, 1, "bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidColumn)

	require.NoError(t, db.Create(&model.UserGroup{Name: "Ops", Code: "ops"}).Error)

	q, err := resolver.Show(ctx, &model.UserGroup{}, "ops", "code")
	require.NoError(t, err)

	var group model.UserGroup
	require.NoError(t, q.First(&group).Error)
	assert.Equal(t, "Ops", group.Name)

	q, err = resolver.Show(ctx, &model.UserGroup{}, "missing", "code")
	require.NoError(t, err)
	err = q.First(&group).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "not-found surfaces at the fetch boundary")
}

func TestSearchMatchesTextColumns(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.UserGroup{Name: "Content Editors", Code: "editors"}).Error)
	require.NoError(t, db.Create(&model.UserGroup{Name: "Operations", Code: "ops"}).Error)

	proto := &model.UserGroup{}
	var groups []model.UserGroup
	q := Search(resolver.Index(ctx, proto), proto, "EDIT")
	require.NoError(t, q.Find(&groups).Error)
	require.Len(t, groups, 1)
	assert.Equal(t, "editors", groups[0].Code)
}

func TestHasColumn(t *testing.T) {
	assert.True(t, HasColumn(model.Profile{}, "updated_by"))
	assert.True(t, HasColumn(model.Profile{}, "first_name"))
	assert.False(t, HasColumn(model.Permission{}, "updated_by_nobody"))
	assert.False(t, HasColumn(model.User{}, "deleted_at"))
}
