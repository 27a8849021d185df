package middleware

import (
	"net/http"
	"strings"

	"admincore/internal/model"
	"admincore/internal/service"
	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Authenticate
const (
	CtxUserID    = "userID"
	CtxProfileID = "profileID"
	CtxIsAdmin   = "isAdmin"
)

// ParseToken validates an HMAC-signed token string and returns its claims.
func ParseToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Authenticate validates the bearer token (Authorization header, with an
// access_token cookie fallback) and stores the user id, profile id and admin
// flag on the request context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authorization is missing"))
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid authorization format, expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid token"))
			return
		}

		c.Set(CtxUserID, claimUint(claims, "sub"))
		c.Set(CtxProfileID, claimUint(claims, "pid"))
		isAdmin, _ := claims["admin"].(bool)
		c.Set(CtxIsAdmin, isAdmin)

		c.Next()
	}
}

// RequirePermission gates a route on the caller holding the action type for
// the entity's module. Admins bypass the check. Must run after Authenticate.
func RequirePermission(perms service.PermissionService, proto model.Entity, action string) gin.HandlerFunc {
	module := proto.TableName()
	return func(c *gin.Context) {
		if c.GetBool(CtxIsAdmin) {
			c.Next()
			return
		}

		profileID := c.GetUint(CtxProfileID)
		if profileID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "unauthenticated"))
			return
		}

		allowed, err := perms.Can(c.Request.Context(), profileID, module, action)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to verify permissions"))
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "access denied: missing "+action+" permission on "+module))
			return
		}
		c.Next()
	}
}

// ActorID returns the acting profile id for audit fields, nil when absent.
func ActorID(c *gin.Context) *uint {
	id := c.GetUint(CtxProfileID)
	if id == 0 {
		return nil
	}
	return &id
}

// claimUint converts a numeric JWT claim (decoded as float64) to uint.
func claimUint(claims jwt.MapClaims, key string) uint {
	if v, ok := claims[key].(float64); ok && v > 0 {
		return uint(v)
	}
	return 0
}
