package handler

import (
	"admincore/internal/middleware"
	"admincore/internal/model"
	"admincore/internal/service"
	"admincore/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
	permissions     service.PermissionService
}

func NewActivityHandler(activityService service.ActivityService, permissions service.PermissionService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, permissions: permissions}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup, secret []byte) {
	logs := router.Group("/api/activity-logs")
	logs.Use(middleware.Authenticate(secret))
	{
		logs.GET("", middleware.RequirePermission(h.permissions, model.ActivityLog{}, model.ActionView), h.List)
	}
}

// List returns paginated activity logs, newest first by default.
func (h *ActivityHandler) List(c *gin.Context) {
	params := pagination.Parse(c, []string{"id", "module", "type", "status", "created_at"})
	respond(c, h.activityService.List(c.Request.Context(), params))
}
