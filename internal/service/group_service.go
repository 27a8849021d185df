package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"admincore/internal/apperrors"
	"admincore/internal/model"
	"admincore/internal/repository"
	"admincore/pkg/pagination"
	"admincore/pkg/response"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GroupRequest carries the group's own fields; the active permission id set
// travels alongside it.
type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
	ActorID     *uint  `json:"-"`
}

// GroupService reconciles a group's full permission-link membership. On
// creation every existing permission gets a row (active or not), so ungranted
// permissions default to inactive rather than absent; on update the rows are
// only toggled, never created or deleted.
type GroupService interface {
	StoreGroupWithPermissions(ctx context.Context, req GroupRequest, activePermissionIDs []uint) response.Envelope
	UpdateGroupWithPermissions(ctx context.Context, req GroupRequest, activePermissionIDs []uint, groupID uint) response.Envelope
	GetGroup(ctx context.Context, groupID uint) response.Envelope
	ListGroups(ctx context.Context, params pagination.Params, search string) response.Envelope
	DeleteGroup(ctx context.Context, groupID uint, actorID *uint) response.Envelope
	DeleteGroups(ctx context.Context, ids []uint, actorID *uint) response.Envelope
}

type groupService struct {
	groups      repository.GroupRepository
	perms       repository.PermissionRepository
	exec        *repository.Executor
	resolver    *repository.Resolver
	txManager   repository.TransactionManager
	permissions PermissionService
	activity    ActivityService
	log         *logrus.Logger
}

// NewGroupService returns a new instance of GroupService
func NewGroupService(
	groups repository.GroupRepository,
	perms repository.PermissionRepository,
	exec *repository.Executor,
	resolver *repository.Resolver,
	txManager repository.TransactionManager,
	permissions PermissionService,
	activity ActivityService,
	log *logrus.Logger,
) GroupService {
	return &groupService{
		groups:      groups,
		perms:       perms,
		exec:        exec,
		resolver:    resolver,
		txManager:   txManager,
		permissions: permissions,
		activity:    activity,
		log:         log,
	}
}

// StoreGroupWithPermissions creates the group and fans out one link row per
// existing permission, flagged active when its id is in the requested set.
func (s *groupService) StoreGroupWithPermissions(ctx context.Context, req GroupRequest, activePermissionIDs []uint) response.Envelope {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return response.Error(http.StatusUnprocessableEntity,
			apperrors.ErrValidation.Error()+": name and code are required")
	}

	active := idSet(activePermissionIDs)

	var group *model.UserGroup
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		group = &model.UserGroup{
			Name:        req.Name,
			Code:        req.Code,
			Description: req.Description,
			CreatedBy:   req.ActorID,
			UpdatedBy:   req.ActorID,
		}
		if err := s.groups.Create(txCtx, group); err != nil {
			return fmt.Errorf("group creation failed: %w", err)
		}

		permIDs, err := s.perms.ListIDs(txCtx)
		if err != nil {
			return err
		}
		rows := make([]map[string]interface{}, 0, len(permIDs))
		for _, pid := range permIDs {
			rows = append(rows, map[string]interface{}{
				"user_group_id": group.ID,
				"permission_id": pid,
				"is_active":     active[pid],
			})
		}
		return s.exec.CreateMany(txCtx, &model.UserGroupPermission{}, rows)
	})
	if err != nil {
		s.log.WithError(err).WithField("code", req.Code).Error("group creation rolled back")
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.permissions.InvalidateCache(ctx)
	s.activity.Record(ctx, ActivityEntry{
		Module:      model.UserGroup{}.TableName(),
		Type:        model.ActivityTypeCreate,
		Description: fmt.Sprintf("created user group %s", group.Code),
		Status:      "success",
		Properties:  map[string]interface{}{"group_id": group.ID, "active_permissions": len(activePermissionIDs)},
		ActorID:     req.ActorID,
	})

	return response.Created("user group created", group, group.ID)
}

// UpdateGroupWithPermissions updates the group's own fields and toggles
// is_active on its existing link rows to match the requested set. This path
// never creates or deletes rows.
func (s *groupService) UpdateGroupWithPermissions(ctx context.Context, req GroupRequest, activePermissionIDs []uint, groupID uint) response.Envelope {
	active := idSet(activePermissionIDs)

	var group *model.UserGroup
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		group, err = s.groups.GetByID(txCtx, groupID)
		if err != nil {
			return err
		}

		if req.Name != "" {
			group.Name = req.Name
		}
		if req.Code != "" {
			group.Code = req.Code
		}
		if req.Description != "" {
			group.Description = req.Description
		}
		group.UpdatedBy = req.ActorID
		if err := s.groups.Update(txCtx, group); err != nil {
			return fmt.Errorf("group update failed: %w", err)
		}

		rows, err := s.groups.ListPermissionRows(txCtx, groupID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := s.groups.SetPermissionActive(txCtx, row.ID, active[row.PermissionID]); err != nil {
				return fmt.Errorf("permission toggle failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("group_id", groupID).Error("group update rolled back")
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.permissions.InvalidateCache(ctx)
	s.activity.Record(ctx, ActivityEntry{
		Module:      model.UserGroup{}.TableName(),
		Type:        model.ActivityTypeUpdate,
		Description: fmt.Sprintf("updated user group %s", group.Code),
		Status:      "success",
		Properties:  map[string]interface{}{"group_id": group.ID, "active_permissions": len(activePermissionIDs)},
		ActorID:     req.ActorID,
	})

	return response.Success(http.StatusOK, "user group updated", group)
}

func (s *groupService) GetGroup(ctx context.Context, groupID uint) response.Envelope {
	group, err := s.groups.GetWithPermissions(ctx, groupID)
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}
	return response.Success(http.StatusOK, "user group retrieved", group)
}

func (s *groupService) ListGroups(ctx context.Context, params pagination.Params, search string) response.Envelope {
	proto := &model.UserGroup{}
	q := s.resolver.Index(ctx, proto)
	q = repository.Search(q, proto, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	var groups []model.UserGroup
	err := q.Order(params.Order()).
		Offset(params.Offset).
		Limit(params.PerPage).
		Find(&groups).Error
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	return response.Success(http.StatusOK, "user groups retrieved", map[string]interface{}{
		"items":        groups,
		"total":        total,
		"current_page": params.Page,
		"per_page":     params.PerPage,
	})
}

// DeleteGroup soft-deletes one group. The audit stamp and the delete itself
// are two statements, so they run inside one transaction.
func (s *groupService) DeleteGroup(ctx context.Context, groupID uint, actorID *uint) response.Envelope {
	var group *model.UserGroup
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		group, err = s.groups.GetByID(txCtx, groupID)
		if err != nil {
			return err
		}
		return s.exec.Delete(txCtx, group, actorID)
	})
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.permissions.InvalidateCache(ctx)
	s.activity.Record(ctx, ActivityEntry{
		Module:      model.UserGroup{}.TableName(),
		Type:        model.ActivityTypeDelete,
		Description: fmt.Sprintf("deleted user group %s", group.Code),
		Status:      "success",
		Properties:  map[string]interface{}{"group_id": group.ID},
		ActorID:     actorID,
	})
	return response.Success(http.StatusNoContent, "user group deleted", nil)
}

func (s *groupService) DeleteGroups(ctx context.Context, ids []uint, actorID *uint) response.Envelope {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.exec.DeleteMany(txCtx, &model.UserGroup{}, ids, "id")
	})
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}
	s.permissions.InvalidateCache(ctx)
	return response.Success(http.StatusNoContent, "user groups deleted", nil)
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
