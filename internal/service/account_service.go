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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RegisterRequest carries the fields for creating a user, its profile and an
// optional group membership in one atomic unit of work.
type RegisterRequest struct {
	Username       string   `json:"username" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password"`
	IsAdmin        bool     `json:"is_admin"`
	FirstName      string   `json:"first_name" binding:"required"`
	MiddleName     string   `json:"middle_name"`
	LastName       string   `json:"last_name" binding:"required"`
	Nickname       string   `json:"nickname"`
	Type           string   `json:"type"`
	Avatar         string   `json:"avatar"`
	ContactNumbers []string `json:"contact_numbers"`
	UserGroupID    *uint    `json:"user_group_id"`
	ActorID        *uint    `json:"-"` // acting profile, set from the auth context
}

// UpdateAccountRequest uses pointer fields so the orchestrator can merge
// request-over-existing: nil means "keep the current value".
type UpdateAccountRequest struct {
	Username       *string   `json:"username"`
	Email          *string   `json:"email" binding:"omitempty,email"`
	Password       *string   `json:"password"`
	Status         *string   `json:"status"`
	IsAdmin        *bool     `json:"is_admin"`
	FirstName      *string   `json:"first_name"`
	MiddleName     *string   `json:"middle_name"`
	LastName       *string   `json:"last_name"`
	Nickname       *string   `json:"nickname"`
	Type           *string   `json:"type"`
	Avatar         *string   `json:"avatar"`
	ContactNumbers *[]string `json:"contact_numbers"`
	UserGroupID    *uint     `json:"user_group_id"`
	ActorID        *uint     `json:"-"`
}

// AccountService composes User + Profile + group-link writes into atomic
// operations. Each method returns the uniform envelope; no raw error crosses
// into the handler layer.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) response.Envelope
	UpdateUserProfile(ctx context.Context, req UpdateAccountRequest, profileID uint) response.Envelope
	DeactivateUser(ctx context.Context, profileID uint, actorID *uint) response.Envelope
	GetAccount(ctx context.Context, profileID uint) response.Envelope
	ListAccounts(ctx context.Context, params pagination.Params, search string) response.Envelope
}

type accountService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	exec      *repository.Executor
	resolver  *repository.Resolver
	txManager repository.TransactionManager
	activity  ActivityService
	log       *logrus.Logger
}

// NewAccountService returns a new instance of AccountService
func NewAccountService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	exec *repository.Executor,
	resolver *repository.Resolver,
	txManager repository.TransactionManager,
	activity ActivityService,
	log *logrus.Logger,
) AccountService {
	return &accountService{
		users:     users,
		profiles:  profiles,
		exec:      exec,
		resolver:  resolver,
		txManager: txManager,
		activity:  activity,
		log:       log,
	}
}

// Register creates the user (password defaults to the username, status forced
// active), its profile and, when a group id was supplied, the membership
// link. Any step failing rolls the whole registration back.
func (s *accountService) Register(ctx context.Context, req RegisterRequest) response.Envelope {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return response.Error(http.StatusUnprocessableEntity,
			apperrors.ErrValidation.Error()+": username, email, first_name and last_name are required")
	}

	password := req.Password
	if password == "" {
		password = req.Username
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return response.Error(http.StatusInternalServerError, "failed to hash password")
	}

	var profile *model.Profile
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user := &model.User{
			Username:     req.Username,
			Email:        req.Email,
			Password:     string(hashed),
			Status:       model.StatusActive,
			IsAdmin:      req.IsAdmin,
			IsFirstLogin: true,
		}
		if err := s.users.Create(txCtx, user); err != nil {
			return fmt.Errorf("user creation failed: %w", err)
		}

		profile = &model.Profile{
			Avatar:         req.Avatar,
			FirstName:      req.FirstName,
			MiddleName:     req.MiddleName,
			LastName:       req.LastName,
			Nickname:       req.Nickname,
			Type:           req.Type,
			ContactNumbers: datatypes.NewJSONSlice(req.ContactNumbers),
			UserID:         user.ID,
			CreatedBy:      req.ActorID,
			UpdatedBy:      req.ActorID,
		}
		if err := s.profiles.Create(txCtx, profile); err != nil {
			return fmt.Errorf("profile creation failed: %w", err)
		}

		if req.UserGroupID != nil {
			if _, err := s.profiles.SaveGroupLink(txCtx, profile.ID, *req.UserGroupID); err != nil {
				return fmt.Errorf("group assignment failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("username", req.Username).Error("registration rolled back")
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.activity.Record(ctx, ActivityEntry{
		Module:      model.Profile{}.TableName(),
		Type:        model.ActivityTypeCreate,
		Description: fmt.Sprintf("registered account %s", req.Username),
		Status:      "success",
		Properties:  map[string]interface{}{"profile_id": profile.ID, "user_id": profile.UserID},
		ActorID:     req.ActorID,
	})

	return response.Created("account registered", profile, profile.ID)
}

// UpdateUserProfile merges the supplied fields over the existing profile and
// its owning user inside one transaction. The password is re-hashed only when
// a new one was supplied; a supplied group id repoints the membership link.
func (s *accountService) UpdateUserProfile(ctx context.Context, req UpdateAccountRequest, profileID uint) response.Envelope {
	var profile *model.Profile
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		profile, err = s.profiles.GetWithUser(txCtx, profileID)
		if err != nil {
			return err
		}

		applyString(&profile.Avatar, req.Avatar)
		applyString(&profile.FirstName, req.FirstName)
		applyString(&profile.MiddleName, req.MiddleName)
		applyString(&profile.LastName, req.LastName)
		applyString(&profile.Nickname, req.Nickname)
		applyString(&profile.Type, req.Type)
		if req.ContactNumbers != nil {
			profile.ContactNumbers = datatypes.NewJSONSlice(*req.ContactNumbers)
		}
		profile.UpdatedBy = req.ActorID
		if err := s.profiles.Update(txCtx, profile); err != nil {
			return fmt.Errorf("profile update failed: %w", err)
		}

		user := profile.User
		applyString(&user.Username, req.Username)
		applyString(&user.Email, req.Email)
		applyString(&user.Status, req.Status)
		if req.IsAdmin != nil {
			user.IsAdmin = *req.IsAdmin
		}
		if req.Password != nil && *req.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.Password = string(hashed)
		}
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("user update failed: %w", err)
		}

		if req.UserGroupID != nil {
			if _, err := s.profiles.SaveGroupLink(txCtx, profile.ID, *req.UserGroupID); err != nil {
				return fmt.Errorf("group assignment failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("profile_id", profileID).Error("account update rolled back")
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.activity.Record(ctx, ActivityEntry{
		Module:      model.Profile{}.TableName(),
		Type:        model.ActivityTypeUpdate,
		Description: fmt.Sprintf("updated account of profile %d", profileID),
		Status:      "success",
		Properties:  map[string]interface{}{"profile_id": profileID},
		ActorID:     req.ActorID,
	})

	return response.Success(http.StatusOK, "account updated", profile)
}

// DeactivateUser is the delete semantic at the account level: the user is
// flipped inactive and the profile soft-deleted with the actor stamped on it.
func (s *accountService) DeactivateUser(ctx context.Context, profileID uint, actorID *uint) response.Envelope {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		profile, err := s.profiles.GetByID(txCtx, profileID)
		if err != nil {
			return err
		}
		if err := s.users.UpdateFields(txCtx, profile.UserID, map[string]interface{}{
			"status": model.StatusInactive,
		}); err != nil {
			return fmt.Errorf("user deactivation failed: %w", err)
		}
		return s.exec.Delete(txCtx, profile, actorID)
	})
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	s.activity.Record(ctx, ActivityEntry{
		Module:      model.Profile{}.TableName(),
		Type:        model.ActivityTypeDelete,
		Description: fmt.Sprintf("deactivated account of profile %d", profileID),
		Status:      "success",
		Properties:  map[string]interface{}{"profile_id": profileID},
		ActorID:     actorID,
	})

	return response.Success(http.StatusNoContent, "account deactivated", nil)
}

func (s *accountService) GetAccount(ctx context.Context, profileID uint) response.Envelope {
	profile, err := s.profiles.GetWithUser(ctx, profileID)
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}
	return response.Success(http.StatusOK, "account retrieved", profile)
}

func (s *accountService) ListAccounts(ctx context.Context, params pagination.Params, search string) response.Envelope {
	proto := &model.Profile{}
	q := s.resolver.Index(ctx, proto)
	q = repository.Search(q, proto, search)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	var profiles []model.Profile
	err := q.Preload("User").Preload("UserGroupLink.UserGroup").
		Order(params.Order()).
		Offset(params.Offset).
		Limit(params.PerPage).
		Find(&profiles).Error
	if err != nil {
		return response.Error(apperrors.Code(err), err.Error())
	}

	return response.Success(http.StatusOK, "accounts retrieved", map[string]interface{}{
		"items":        profiles,
		"total":        total,
		"current_page": params.Page,
		"per_page":     params.PerPage,
	})
}

// applyString copies an optional request field over the existing value.
func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
