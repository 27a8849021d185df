package service

import (
	"context"
	"net/http"
	"time"

	"admincore/internal/model"
	"admincore/internal/repository"
	"admincore/pkg/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest accepts either the username or the email in Login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService authenticates credentials and issues JWTs carrying the user id,
// its profile id and the admin flag, so the permission middleware needs no
// DB round trip.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) response.Envelope
}

type authService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	activity ActivityService
	secret   []byte
	tokenTTL time.Duration
	log      *logrus.Logger
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	activity ActivityService,
	secret []byte,
	tokenTTL time.Duration,
	log *logrus.Logger,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:    users,
		profiles: profiles,
		activity: activity,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) response.Envelope {
	user, err := s.users.GetByLogin(ctx, req.Login)
	if err != nil {
		return response.Error(http.StatusUnauthorized, "invalid credentials")
	}
	if user.Status != model.StatusActive {
		return response.Error(http.StatusUnauthorized, "account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return response.Error(http.StatusUnauthorized, "invalid credentials")
	}

	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return response.Error(http.StatusUnauthorized, "no profile for user")
	}

	now := time.Now()
	fields := map[string]interface{}{"last_login_at": now}
	if user.IsFirstLogin {
		fields["is_first_login"] = false
		fields["api_token"] = uuid.NewString()
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to stamp login")
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"pid":   profile.ID,
		"admin": user.IsAdmin,
		"exp":   now.Add(s.tokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return response.Error(http.StatusInternalServerError, "failed to generate token")
	}

	s.activity.Record(ctx, ActivityEntry{
		Module:      model.User{}.TableName(),
		Type:        model.ActivityTypeLogin,
		Description: "user logged in",
		Status:      "success",
		Properties:  map[string]interface{}{"user_id": user.ID},
		ActorID:     &profile.ID,
	})

	return response.Success(http.StatusOK, "authenticated", map[string]interface{}{
		"token":          token,
		"profile_id":     profile.ID,
		"is_admin":       user.IsAdmin,
		"is_first_login": user.IsFirstLogin,
	})
}
