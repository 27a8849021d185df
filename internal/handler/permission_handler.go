package handler

import (
	"net/http"

	"admincore/internal/middleware"
	"admincore/internal/model"
	"admincore/internal/service"
	"admincore/pkg/naming"
	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
)

type generatePayload struct {
	Module string `json:"module" binding:"required"`
}

type PermissionHandler struct {
	permissions service.PermissionService
}

func NewPermissionHandler(permissions service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup, secret []byte) {
	perms := router.Group("/api/permissions")
	perms.Use(middleware.Authenticate(secret))
	{
		perms.GET("", middleware.RequirePermission(h.permissions, model.Permission{}, model.ActionView), h.List)
		perms.POST("/generate", middleware.RequirePermission(h.permissions, model.Permission{}, model.ActionCreate), h.Generate)
		perms.GET("/mine/:module", h.Mine)
	}
}

// List returns all permissions grouped by module.
func (h *PermissionHandler) List(c *gin.Context) {
	respond(c, h.permissions.ListPermissions(c.Request.Context()))
}

// Generate creates the action permissions for a module and fans missing link
// rows out to every group.
func (h *PermissionHandler) Generate(c *gin.Context) {
	var payload generatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	respond(c, h.permissions.GenerateForModule(c.Request.Context(), payload.Module))
}

// Mine returns the caller's resolved action types for a module, so the UI can
// hide what the profile cannot do.
func (h *PermissionHandler) Mine(c *gin.Context) {
	profileID := c.GetUint(middleware.CtxProfileID)
	module := naming.Resolve(c.Param("module"))
	actions, err := h.permissions.ResolvePermissions(c.Request.Context(), module, profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "permissions resolved", actions))
}
