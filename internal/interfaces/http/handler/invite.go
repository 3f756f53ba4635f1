package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/interfaces/http/middleware"
)

// InviteHandler serves the invite join flow
type InviteHandler struct {
	BaseHandler
	inviteService *identityapp.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *identityapp.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// RegisterRoutes registers invite routes. Accept is public; everything
// else requires an authenticated manager.
func (h *InviteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invites := rg.Group("/invites")
	{
		invites.POST("", middleware.RequireManager(), h.Create)
		invites.GET("", middleware.RequireManager(), h.List)
		invites.POST("/:id/revoke", middleware.RequireManager(), h.Revoke)
		invites.POST("/accept", h.Accept)
	}
}

type createInviteRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Role      string     `json:"role" binding:"required"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
}

// Create issues an invite code for a new team member
func (h *InviteHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invite, err := h.inviteService.Create(c.Request.Context(), actor, identityapp.CreateInviteInput{
		Email:     req.Email,
		Role:      req.Role,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invite)
}

// List returns the actor's team invites
func (h *InviteHandler) List(c *gin.Context) {
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

	pendingOnly := c.Query("pending") == "true"

	invites, err := h.inviteService.List(c.Request.Context(), teamID, pendingOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invites)
}

// Revoke cancels a pending invite
func (h *InviteHandler) Revoke(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invite ID")
		return
	}

	if err := h.inviteService.Revoke(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Invite revoked"})
}

type acceptInviteRequest struct {
	Code        string `json:"code" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Accept redeems an invite code and creates the member account
func (h *InviteHandler) Accept(c *gin.Context) {
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.inviteService.Accept(c.Request.Context(), identityapp.AcceptInviteInput{
		Code:        req.Code,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}
