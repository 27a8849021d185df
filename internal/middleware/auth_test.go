package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admincore/internal/model"
	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

// stubPermissions answers Can from a fixed grant set.
type stubPermissions struct {
	grants map[string]bool
	err    error
}

func (s *stubPermissions) ResolvePermissions(ctx context.Context, module string, profileID uint) ([]string, error) {
	return nil, s.err
}

func (s *stubPermissions) Can(ctx context.Context, profileID uint, module, action string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.grants[module+":"+action], nil
}

func (s *stubPermissions) GenerateForModule(ctx context.Context, rawModule string) response.Envelope {
	return response.Envelope{}
}

func (s *stubPermissions) ListPermissions(ctx context.Context) response.Envelope {
	return response.Envelope{}
}

func (s *stubPermissions) InvalidateCache(ctx context.Context) {}

func newRouter(perms *stubPermissions, action string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		Authenticate(testSecret),
		RequirePermission(perms, model.UserGroup{}, action),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func request(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateRejectsMissingAndMalformed(t *testing.T) {
	router := newRouter(&stubPermissions{}, model.ActionView)

	assert.Equal(t, http.StatusUnauthorized, request(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer not-a-jwt").Code)
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	router := newRouter(&stubPermissions{}, model.ActionView)

	expired := signToken(t, jwt.MapClaims{
		"sub": 1, "pid": 1, "admin": true,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer "+expired).Code)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "pid": 1, "admin": true,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer "+foreign).Code)
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	// No grants at all, but the admin flag short-circuits the check.
	router := newRouter(&stubPermissions{}, model.ActionDelete)

	token := signToken(t, jwt.MapClaims{
		"sub": 1, "pid": 1, "admin": true,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusOK, request(router, "Bearer "+token).Code)
}

func TestRequirePermissionGrantAndDenial(t *testing.T) {
	perms := &stubPermissions{grants: map[string]bool{"user_groups:view": true}}

	token := signToken(t, jwt.MapClaims{
		"sub": 1, "pid": 9, "admin": false,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusOK,
		request(newRouter(perms, model.ActionView), "Bearer "+token).Code)
	assert.Equal(t, http.StatusForbidden,
		request(newRouter(perms, model.ActionDelete), "Bearer "+token).Code)
}

func TestAuthenticateAcceptsCookie(t *testing.T) {
	router := newRouter(&stubPermissions{}, model.ActionView)

	token := signToken(t, jwt.MapClaims{
		"sub": 1, "pid": 1, "admin": true,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
