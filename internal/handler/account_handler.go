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

type AccountHandler struct {
	accountService service.AccountService
	permissions    service.PermissionService
}

func NewAccountHandler(accountService service.AccountService, permissions service.PermissionService) *AccountHandler {
	return &AccountHandler{accountService: accountService, permissions: permissions}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup, secret []byte) {
	accounts := router.Group("/api/accounts")
	accounts.Use(middleware.Authenticate(secret))
	{
		accounts.GET("", middleware.RequirePermission(h.permissions, model.Profile{}, model.ActionView), h.List)
		accounts.GET("/:id", middleware.RequirePermission(h.permissions, model.Profile{}, model.ActionView), h.Show)
		accounts.POST("", middleware.RequirePermission(h.permissions, model.Profile{}, model.ActionCreate), h.Register)
		accounts.PUT("/:id", middleware.RequirePermission(h.permissions, model.Profile{}, model.ActionUpdate), h.Update)
		accounts.DELETE("/:id", middleware.RequirePermission(h.permissions, model.Profile{}, model.ActionDelete), h.Deactivate)
	}
}

// List returns paginated profiles with their users and groups.
func (h *AccountHandler) List(c *gin.Context) {
	params := pagination.Parse(c, model.Profile{}.Fillable())
	respond(c, h.accountService.ListAccounts(c.Request.Context(), params, c.Query("search")))
}

// Show returns one account by profile id.
func (h *AccountHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respond(c, h.accountService.GetAccount(c.Request.Context(), id))
}

// Register creates a user, profile and optional group link atomically.
func (h *AccountHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	req.ActorID = middleware.ActorID(c)
	respond(c, h.accountService.Register(c.Request.Context(), req))
}

// Update merges the supplied fields over the existing account atomically.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid request payload: "+err.Error()))
		return
	}
	req.ActorID = middleware.ActorID(c)
	respond(c, h.accountService.UpdateUserProfile(c.Request.Context(), req, id))
}

// Deactivate flips the user inactive and soft-deletes the profile.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respond(c, h.accountService.DeactivateUser(c.Request.Context(), id, middleware.ActorID(c)))
}
