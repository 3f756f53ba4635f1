package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	flagapp "github.com/salespulse/backend/internal/application/featureflag"
)

// FeatureFlagHandler serves per-team feature configuration
type FeatureFlagHandler struct {
	BaseHandler
	flagService *flagapp.FlagService
	evaluator   *flagapp.EvaluationService
}

// NewFeatureFlagHandler creates a new feature flag handler
func NewFeatureFlagHandler(flagService *flagapp.FlagService, evaluator *flagapp.EvaluationService) *FeatureFlagHandler {
	return &FeatureFlagHandler{flagService: flagService, evaluator: evaluator}
}

// RegisterRoutes registers feature flag routes
func (h *FeatureFlagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	flags := rg.Group("/features")
	{
		flags.GET("/me", h.MyFeatures)
		flags.GET("", h.List)
		flags.PUT("", h.SetFlag)
		flags.PUT("/overrides", h.SetRoleOverride)
		flags.DELETE("/overrides", h.ClearRoleOverride)
		flags.DELETE("/:feature", h.Reset)
	}
}

// MyFeatures resolves every feature for the calling user
func (h *FeatureFlagHandler) MyFeatures(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	features, err := h.evaluator.EvaluateAll(c.Request.Context(), actor.TeamID, actor.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, features)
}

// List returns every feature's configuration for a team
func (h *FeatureFlagHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	teamID, ok2 := h.teamOverride(c)
	if !ok2 {
		return
	}

	flags, err := h.flagService.List(c.Request.Context(), actor, teamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flags)
}

type setFlagRequest struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Enabled bool       `json:"enabled"`
}

// SetFlag sets a team's default for one feature
func (h *FeatureFlagHandler) SetFlag(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	flag, err := h.flagService.SetFlag(c.Request.Context(), actor, flagapp.SetFlagInput{
		TeamID:  req.TeamID,
		Feature: req.Feature,
		Enabled: req.Enabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flag)
}

type roleOverrideRequest struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Role    string     `json:"role" binding:"required"`
	Enabled bool       `json:"enabled"`
}

// SetRoleOverride pins a feature on or off for one role
func (h *FeatureFlagHandler) SetRoleOverride(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req roleOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	flag, err := h.flagService.SetRoleOverride(c.Request.Context(), actor, flagapp.RoleOverrideInput{
		TeamID:  req.TeamID,
		Feature: req.Feature,
		Role:    req.Role,
		Enabled: req.Enabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flag)
}

type clearOverrideRequest struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Role    string     `json:"role" binding:"required"`
}

// ClearRoleOverride removes a role's pin, restoring the team default
func (h *FeatureFlagHandler) ClearRoleOverride(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req clearOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	flag, err := h.flagService.ClearRoleOverride(c.Request.Context(), actor, flagapp.ClearOverrideInput{
		TeamID:  req.TeamID,
		Feature: req.Feature,
		Role:    req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flag)
}

// Reset removes a team's configuration for one feature entirely
func (h *FeatureFlagHandler) Reset(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	teamID, ok2 := h.teamOverride(c)
	if !ok2 {
		return
	}

	if err := h.flagService.Reset(c.Request.Context(), actor, teamID, c.Param("feature")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// teamOverride reads the optional team_id query parameter. The second
// return is false when a response has already been written.
func (h *FeatureFlagHandler) teamOverride(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("team_id")
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return nil, false
	}
	return &parsed, true
}
