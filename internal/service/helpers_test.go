package service

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"admincore/internal/model"
	"admincore/internal/repository"
	"admincore/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv bundles everything the orchestrator tests need against a real
// in-memory database and a miniredis-backed cache.
type testEnv struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	cache     cache.Store
	exec      *repository.Executor
	resolver  *repository.Resolver
	txManager repository.TransactionManager
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	groups    repository.GroupRepository
	perms     repository.PermissionRepository
	activity  ActivityService
	log       *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
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

	mr := miniredis.RunT(t)
	client := cache.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		db:        db,
		redis:     mr,
		cache:     cache.NewRedisStore(client),
		exec:      repository.NewExecutor(db),
		resolver:  repository.NewResolver(db),
		txManager: repository.NewTransactionManager(db),
		users:     repository.NewUserRepository(db),
		profiles:  repository.NewProfileRepository(db),
		groups:    repository.NewGroupRepository(db),
		perms:     repository.NewPermissionRepository(db),
		log:       log,
	}
	env.activity = NewActivityService(repository.NewActivityRepository(db), nil, log)
	return env
}

func (e *testEnv) permissionService(t *testing.T, ttl time.Duration) PermissionService {
	t.Helper()
	return NewPermissionService(e.profiles, e.perms, e.groups, e.exec, e.txManager, e.cache, ttl, e.log)
}

func (e *testEnv) accountService(t *testing.T) AccountService {
	t.Helper()
	return NewAccountService(e.users, e.profiles, e.exec, e.resolver, e.txManager, e.activity, e.log)
}

func (e *testEnv) groupService(t *testing.T, perms PermissionService) GroupService {
	t.Helper()
	return NewGroupService(e.groups, e.perms, e.exec, e.resolver, e.txManager, perms, e.activity, e.log)
}

// seedProfile creates a user + profile pair directly.
func (e *testEnv) seedProfile(t *testing.T, username string) *model.Profile {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Status:   model.StatusActive,
	}
	require.NoError(t, e.db.Create(user).Error)
	profile := &model.Profile{
		FirstName: username,
		LastName:  "Tester",
		UserID:    user.ID,
	}
	require.NoError(t, e.db.Create(profile).Error)
	return profile
}

// seedGroup creates a group and links the profile to it when given.
func (e *testEnv) seedGroup(t *testing.T, code string, profile *model.Profile) *model.UserGroup {
	t.Helper()
	group := &model.UserGroup{Name: "Group " + code, Code: code}
	require.NoError(t, e.db.Create(group).Error)
	if profile != nil {
		require.NoError(t, e.db.Create(&model.ProfileUserGroup{
			ProfileID:   profile.ID,
			UserGroupID: group.ID,
		}).Error)
	}
	return group
}

// seedPermission creates a permission and, when group is given, its link row.
func (e *testEnv) seedPermission(t *testing.T, module, action string, permActive bool, group *model.UserGroup, linkActive bool) *model.Permission {
	t.Helper()
	perm := &model.Permission{Module: module, Type: action, IsActive: permActive}
	require.NoError(t, e.db.Create(perm).Error)
	if group != nil {
		require.NoError(t, e.db.Create(&model.UserGroupPermission{
			UserGroupID:  group.ID,
			PermissionID: perm.ID,
			IsActive:     linkActive,
		}).Error)
	}
	return perm
}
