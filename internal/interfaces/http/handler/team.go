package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/interfaces/http/middleware"
)

// TeamHandler serves platform-level team administration
type TeamHandler struct {
	BaseHandler
	teamService *identityapp.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *identityapp.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// RegisterRoutes registers team routes. Provisioning and lifecycle
// are platform operations behind the super admin gate; state managers
// can read their own team's profile and member stats.
func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	teams := rg.Group("/teams")

	reads := teams.Group("")
	reads.Use(middleware.RequireRole(identity.RoleStateManager))
	{
		reads.GET("/:id", h.Get)
		reads.GET("/:id/stats", h.Stats)
	}

	admin := teams.Group("")
	admin.Use(middleware.RequireSuperAdmin())
	{
		admin.POST("", h.Create)
		admin.GET("", h.List)
		admin.PUT("/:id/name", h.Rename)
		admin.PUT("/:id/config", h.UpdateConfig)
		admin.POST("/:id/activate", h.Activate)
		admin.POST("/:id/suspend", h.Suspend)
		admin.POST("/:id/deactivate", h.Deactivate)
		admin.DELETE("/:id", h.Delete)
	}
}

// bindOwnTeamID resolves the :id parameter and checks the actor may
// read that team. Non-platform actors only see their own team; other
// teams are reported as not found so their existence does not leak.
func (h *TeamHandler) bindOwnTeamID(c *gin.Context) (uuid.UUID, bool) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return uuid.Nil, false
	}

	actor, ok := getActor(c)
	if !ok {
		return uuid.Nil, false
	}
	if actor.Role != identity.RoleSuperAdmin && actor.TeamID != id {
		h.NotFound(c, "Team not found")
		return uuid.Nil, false
	}
	return id, true
}

type createTeamRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	ManagerUsername string `json:"manager_username" binding:"required"`
	ManagerPassword string `json:"manager_password" binding:"required"`
	ManagerEmail    string `json:"manager_email,omitempty"`
}

// Create provisions a team together with its first state manager
func (h *TeamHandler) Create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	team, manager, err := h.teamService.Create(c.Request.Context(), identityapp.CreateTeamInput{
		Code:            req.Code,
		Name:            req.Name,
		ManagerUsername: req.ManagerUsername,
		ManagerPassword: req.ManagerPassword,
		ManagerEmail:    req.ManagerEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"team":    team,
		"manager": manager,
	})
}

type listTeamsRequest struct {
	Keyword   string `form:"keyword"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// List returns all teams
func (h *TeamHandler) List(c *gin.Context) {
	var req listTeamsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := identity.TeamFilter{
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := identity.TeamStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.teamService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Teams, result.Total, result.Page, result.PageSize)
}

// Get returns one team
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := h.bindOwnTeamID(c)
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

// Stats returns member counts for a team
func (h *TeamHandler) Stats(c *gin.Context) {
	id, ok := h.bindOwnTeamID(c)
	if !ok {
		return
	}

	stats, err := h.teamService.Stats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

type renameTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// Rename changes a team's display name
func (h *TeamHandler) Rename(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return
	}

	var req renameTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	team, err := h.teamService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

type teamConfigRequest struct {
	Timezone          *string          `json:"timezone,omitempty"`
	Locale            *string          `json:"locale,omitempty"`
	WeeklyPremiumGoal *decimal.Decimal `json:"weekly_premium_goal,omitempty"`
	WeeklySalesGoal   *int             `json:"weekly_sales_goal,omitempty"`
	NPAWindowDays     *int             `json:"npa_window_days,omitempty"`
	MaxUsers          *int             `json:"max_users,omitempty"`
}

// UpdateConfig edits team configuration; omitted fields keep their value
func (h *TeamHandler) UpdateConfig(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return
	}

	var req teamConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	team, err := h.teamService.UpdateConfig(c.Request.Context(), id, identityapp.TeamConfigInput{
		Timezone:          req.Timezone,
		Locale:            req.Locale,
		WeeklyPremiumGoal: req.WeeklyPremiumGoal,
		WeeklySalesGoal:   req.WeeklySalesGoal,
		NPAWindowDays:     req.NPAWindowDays,
		MaxUsers:          req.MaxUsers,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

// Activate re-enables a team
func (h *TeamHandler) Activate(c *gin.Context) {
	h.transition(c, h.teamService.Activate)
}

// Suspend pauses a team without losing data
func (h *TeamHandler) Suspend(c *gin.Context) {
	h.transition(c, h.teamService.Suspend)
}

// Deactivate shuts a team down
func (h *TeamHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.teamService.Deactivate)
}

func (h *TeamHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*identityapp.TeamDTO, error)) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

// Delete removes a deactivated, empty team
func (h *TeamHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
