package handler

import (
	"net/http"

	"admincore/internal/service"
	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
	}
}

// Login authenticates by username or email and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	respond(c, h.authService.Login(c.Request.Context(), req))
}
