package handler

import (
	"net/http"

	"admincore/internal/middleware"
	"admincore/internal/model"
	"admincore/internal/service"
	"admincore/pkg/pagination"
	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
)

// groupPayload wraps the group fields with the active permission id set.
type groupPayload struct {
	service.GroupRequest
	Permissions []uint `json:"permissions"`
}

type bulkDeletePayload struct {
	IDs []uint `json:"ids" binding:"required"`
}

type GroupHandler struct {
	groupService service.GroupService
	permissions  service.PermissionService
}

func NewGroupHandler(groupService service.GroupService, permissions service.PermissionService) *GroupHandler {
	return &GroupHandler{groupService: groupService, permissions: permissions}
}

func (h *GroupHandler) RegisterRoutes(router *gin.RouterGroup, secret []byte) {
	groups := router.Group("/api/user-groups")
	groups.Use(middleware.Authenticate(secret))
	{
		groups.GET("", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionView), h.List)
		groups.GET("/:id", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionView), h.Show)
		groups.POST("", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionCreate), h.Store)
		groups.PUT("/:id", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionUpdate), h.Update)
		groups.DELETE("/:id", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionDelete), h.Delete)
		groups.DELETE("", middleware.RequirePermission(h.permissions, model.UserGroup{}, model.ActionDelete), h.BulkDelete)
	}
}

// List returns paginated groups.
func (h *GroupHandler) List(c *gin.Context) {
	params := pagination.Parse(c, model.UserGroup{}.Fillable())
	respond(c, h.groupService.ListGroups(c.Request.Context(), params, c.Query("search")))
}

// Show returns one group with its permission rows.
func (h *GroupHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respond(c, h.groupService.GetGroup(c.Request.Context(), id))
}

// Store creates a group and fans out its permission rows.
func (h *GroupHandler) Store(c *gin.Context) {
	var payload groupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	payload.ActorID = middleware.ActorID(c)
	respond(c, h.groupService.StoreGroupWithPermissions(c.Request.Context(), payload.GroupRequest, payload.Permissions))
}

// Update changes group fields and toggles its permission rows.
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload groupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	payload.ActorID = middleware.ActorID(c)
	respond(c, h.groupService.UpdateGroupWithPermissions(c.Request.Context(), payload.GroupRequest, payload.Permissions, id))
}

// Delete soft-deletes one group.
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respond(c, h.groupService.DeleteGroup(c.Request.Context(), id, middleware.ActorID(c)))
}

// BulkDelete soft-deletes the listed groups.
func (h *GroupHandler) BulkDelete(c *gin.Context) {
	var payload bulkDeletePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	respond(c, h.groupService.DeleteGroups(c.Request.Context(), payload.IDs, middleware.ActorID(c)))
}
