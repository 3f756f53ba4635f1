package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityapp "github.com/salespulse/backend/internal/application/activity"
)

// dateLayout is the wire format for activity dates. Full RFC 3339
// timestamps are accepted too and truncated by the domain layer.
const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// ActivityHandler serves daily production logging
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// RegisterRoutes registers activity routes
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	activities := rg.Group("/activities")
	{
		activities.POST("", h.Log)
		activities.GET("", h.List)
		activities.GET("/:id", h.Get)
		activities.PATCH("/:id", h.Patch)
		activities.DELETE("/:id", h.Delete)
	}
	rg.GET("/users/:id/activities/:date", h.GetByUserAndDate)
}

type logActivityRequest struct {
	UserID  *uuid.UUID               `json:"user_id,omitempty"`
	Date    string                   `json:"date" binding:"required"`
	Metrics activityapp.MetricsInput `json:"metrics"`
	Note    string                   `json:"note,omitempty"`
}

// Log records (or re-records) one user's production for one day
func (h *ActivityHandler) Log(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	record, err := h.activityService.Log(c.Request.Context(), actor, activityapp.LogInput{
		UserID:  req.UserID,
		Date:    date,
		Metrics: req.Metrics,
		Note:    req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

type listActivitiesRequest struct {
	UserID   *uuid.UUID `form:"user_id"`
	From     string     `form:"from"`
	To       string     `form:"to"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// List returns activity records visible to the actor
func (h *ActivityHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req listActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := activityapp.ListInput{
		UserID:   req.UserID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		input.From = from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		input.To = to
	}

	result, err := h.activityService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Activities, result.Total, result.Page, result.PageSize)
}

// Get returns one activity record
func (h *ActivityHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid activity ID")
		return
	}

	record, err := h.activityService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Patch applies a partial metrics update to one record
func (h *ActivityHandler) Patch(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid activity ID")
		return
	}

	var input activityapp.PatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.ID = id

	record, err := h.activityService.Patch(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete removes one activity record
func (h *ActivityHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid activity ID")
		return
	}

	if err := h.activityService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByUserAndDate returns one user's record for one calendar day
func (h *ActivityHandler) GetByUserAndDate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	record, err := h.activityService.GetByUserAndDate(c.Request.Context(), actor, userID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}
