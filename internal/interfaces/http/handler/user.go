package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
)

// UserHandler serves team member management
type UserHandler struct {
	BaseHandler
	userService       *identityapp.UserService
	visibilityService *identityapp.VisibilityService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService, visibilityService *identityapp.VisibilityService) *UserHandler {
	return &UserHandler{
		userService:       userService,
		visibilityService: visibilityService,
	}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/org-tree", h.OrgTree)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
		users.GET("/:id/reports", h.DirectReports)
		users.PUT("/:id/role", h.ChangeRole)
		users.PUT("/:id/manager", h.AssignManager)
		users.POST("/:id/activate", h.Activate)
		users.POST("/:id/deactivate", h.Deactivate)
		users.POST("/:id/lock", h.Lock)
		users.POST("/:id/unlock", h.Unlock)
		users.POST("/:id/reset-password", h.ResetPassword)
	}
}

type createUserRequest struct {
	Username    string     `json:"username" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role" binding:"required"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
}

// Create adds a member to the actor's team
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actor, identityapp.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		Phone:       req.Phone,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		ManagerID:   req.ManagerID,
		HiredAt:     req.HiredAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

type listUsersRequest struct {
	Keyword   string `form:"keyword"`
	Status    string `form:"status"`
	Role      string `form:"role"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// List returns the members visible to the actor
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req listUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.userService.List(c.Request.Context(), actor, identityapp.UserFilterInput{
		Keyword:   req.Keyword,
		Status:    req.Status,
		Role:      req.Role,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// Get returns one member
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

type updateUserRequest struct {
	Email       *string    `json:"email,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Update edits a member's profile
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, identityapp.UpdateUserInput{
		ID:          id,
		Email:       req.Email,
		Phone:       req.Phone,
		DisplayName: req.DisplayName,
		HiredAt:     req.HiredAt,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a member
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DirectReports returns a manager's direct reports
func (h *UserHandler) DirectReports(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	reports, err := h.userService.DirectReports(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reports)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole changes a member's role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

type assignManagerRequest struct {
	ManagerID *uuid.UUID `json:"manager_id"`
}

// AssignManager reassigns a member in the reporting tree. A null
// manager detaches them.
func (h *UserHandler) AssignManager(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req assignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.AssignManager(c.Request.Context(), actor, id, req.ManagerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate re-enables a deactivated member
func (h *UserHandler) Activate(c *gin.Context) {
	h.transition(c, h.userService.Activate)
}

// Deactivate disables a member
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.userService.Deactivate)
}

// Lock suspends a member's access until unlocked
func (h *UserHandler) Lock(c *gin.Context) {
	h.transition(c, h.userService.Lock)
}

// Unlock clears a security lock
func (h *UserHandler) Unlock(c *gin.Context) {
	h.transition(c, h.userService.Unlock)
}

func (h *UserHandler) transition(c *gin.Context, fn func(ctx context.Context, actor *identity.User, userID uuid.UUID) (*identityapp.UserDTO, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword sets a temporary password for a member
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), actor, id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset"})
}

// OrgTree renders the team's reporting tree
func (h *UserHandler) OrgTree(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	teamID := actor.TeamID
	if actor.Role == identity.RoleSuperAdmin {
		raw := c.Query("team_id")
		if raw == "" {
			h.BadRequest(c, "team_id is required")
			return
		}
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid team ID")
			return
		}
		teamID = parsed
	}

	tree, err := h.visibilityService.OrgTree(c.Request.Context(), teamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}
