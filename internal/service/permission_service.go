package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"admincore/internal/apperrors"
	"admincore/internal/model"
	"admincore/internal/repository"
	"admincore/pkg/cache"
	"admincore/pkg/naming"
	"admincore/pkg/response"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// permissionCachePrefix covers every resolution-engine cache entry, so a
	// single prefix delete invalidates the whole keyspace after a mutation.
	permissionCachePrefix = "permissions:"
	permissionKeyFormat   = "permissions:profile:%d:module:%s"

	// DefaultPermissionTTL bounds staleness of cached grants.
	DefaultPermissionTTL = 60 * time.Minute
)

// PermissionService is the permission resolution engine plus the
// administrative permission-generation path. Every authorization decision in
// the system reduces to "is action ∈ ResolvePermissions(module, profileID)".
type PermissionService interface {
	// ResolvePermissions returns the action types the profile's group grants
	// for the module. The module must already be in canonical form (see
	// pkg/naming); non-canonical names silently resolve to nothing.
	ResolvePermissions(ctx context.Context, module string, profileID uint) ([]string, error)
	// Can reports whether the profile holds the action on the module.
	Can(ctx context.Context, profileID uint, module, action string) (bool, error)
	// GenerateForModule creates the four action permissions for a module
	// named at runtime and fans missing link rows out to every existing
	// group, restoring the one-row-per-permission-per-group invariant.
	GenerateForModule(ctx context.Context, rawModule string) response.Envelope
	// ListPermissions returns every permission grouped for the admin screen.
	ListPermissions(ctx context.Context) response.Envelope
	// InvalidateCache drops every cached resolution result.
	InvalidateCache(ctx context.Context)
}

type permissionService struct {
	profiles  repository.ProfileRepository
	perms     repository.PermissionRepository
	groups    repository.GroupRepository
	exec      *repository.Executor
	txManager repository.TransactionManager
	cache     cache.Store
	ttl       time.Duration
	log       *logrus.Logger
}

// NewPermissionService wires the resolution engine. A zero ttl falls back to
// DefaultPermissionTTL.
func NewPermissionService(
	profiles repository.ProfileRepository,
	perms repository.PermissionRepository,
	groups repository.GroupRepository,
	exec *repository.Executor,
	txManager repository.TransactionManager,
	cacheStore cache.Store,
	ttl time.Duration,
	log *logrus.Logger,
) PermissionService {
	if ttl <= 0 {
		ttl = DefaultPermissionTTL
	}
	return &permissionService{
		profiles:  profiles,
		perms:     perms,
		groups:    groups,
		exec:      exec,
		txManager: txManager,
		cache:     cacheStore,
		ttl:       ttl,
		log:       log,
	}
}

func permissionCacheKey(profileID uint, module string) string {
	return fmt.Sprintf(permissionKeyFormat, profileID, module)
}

func (s *permissionService) ResolvePermissions(ctx context.Context, module string, profileID uint) ([]string, error) {
	key := permissionCacheKey(profileID, module)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		// A broken cache degrades to a DB read, it never blocks authorization.
		s.log.WithError(err).WithField("key", key).Warn("permission cache read failed")
	} else if ok {
		var actions []string
		if err := json.Unmarshal([]byte(raw), &actions); err == nil {
			return actions, nil
		}
		s.log.WithField("key", key).Warn("discarding malformed permission cache entry")
	}

	actions, err := s.resolveFromStore(ctx, module, profileID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(actions); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("permission cache write failed")
		}
	}
	return actions, nil
}

// resolveFromStore loads the profile's group membership with its full
// permission-link set and projects the matching active action types.
func (s *permissionService) resolveFromStore(ctx context.Context, module string, profileID uint) ([]string, error) {
	profile, err := s.profiles.GetWithPermissions(ctx, profileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// An unknown or removed profile holds no grants.
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	link := profile.UserGroupLink
	if link == nil || link.UserGroup == nil {
		return []string{}, nil
	}

	actions := make([]string, 0, len(model.ActionTypes()))
	for _, row := range link.UserGroup.Permissions {
		if !row.IsActive || row.Permission == nil {
			continue
		}
		if !row.Permission.IsActive || row.Permission.Module != module {
			continue
		}
		actions = append(actions, row.Permission.Type)
	}
	return actions, nil
}

func (s *permissionService) Can(ctx context.Context, profileID uint, module, action string) (bool, error) {
	actions, err := s.ResolvePermissions(ctx, module, profileID)
	if err != nil {
		return false, err
	}
	return slices.Contains(actions, action), nil
}

func (s *permissionService) GenerateForModule(ctx context.Context, rawModule string) response.Envelope {
	module := naming.Resolve(rawModule)
	if module == "" {
		return response.Error(http.StatusUnprocessableEntity, "module name is required")
	}
	if _, ok := model.Lookup(module); !ok {
		return response.Error(http.StatusInternalServerError,
			fmt.Sprintf("%s: %s", apperrors.ErrInvalidEntityType.Error(), module))
	}

	var created []model.Permission
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, action := range model.ActionTypes() {
			perm, err := s.perms.FindByModuleAndType(txCtx, module, action)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				perm = &model.Permission{Module: module, Type: action, IsActive: true}
				if err := s.perms.Create(txCtx, perm); err != nil {
					return err
				}
				created = append(created, *perm)
			} else if err != nil {
				return err
			}

			if err := s.fanOutToGroups(txCtx, perm.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.InvalidateCache(ctx)
	s.log.WithFields(logrus.Fields{"module": module, "created": len(created)}).
		Info("generated module permissions")

	return response.Success(http.StatusCreated,
		fmt.Sprintf("permissions generated for module %s", module), created)
}

// fanOutToGroups inserts an inactive link row for every group that does not
// yet have one for the permission.
func (s *permissionService) fanOutToGroups(ctx context.Context, permissionID uint) error {
	groupIDs, err := s.groups.GroupIDsMissingPermission(ctx, permissionID)
	if err != nil {
		return err
	}
	rows := make([]map[string]interface{}, 0, len(groupIDs))
	for _, gid := range groupIDs {
		rows = append(rows, map[string]interface{}{
			"user_group_id": gid,
			"permission_id": permissionID,
			"is_active":     false,
		})
	}
	return s.exec.CreateMany(ctx, &model.UserGroupPermission{}, rows)
}

func (s *permissionService) ListPermissions(ctx context.Context) response.Envelope {
	perms, err := s.perms.ListAll(ctx)
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}
	grouped := make(map[string][]model.Permission)
	for _, p := range perms {
		grouped[p.Module] = append(grouped[p.Module], p)
	}
	return response.Success(http.StatusOK, "permissions retrieved", grouped)
}

func (s *permissionService) InvalidateCache(ctx context.Context) {
	if err := s.cache.DeleteByPrefix(ctx, permissionCachePrefix); err != nil {
		s.log.WithError(err).Warn("permission cache invalidation failed")
	}
}
