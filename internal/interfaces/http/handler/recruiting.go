package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	recruitingapp "github.com/salespulse/backend/internal/application/recruiting"
)

// RecruitingHandler serves the recruiting pipeline and interviews
type RecruitingHandler struct {
	BaseHandler
	recruitService   *recruitingapp.RecruitService
	interviewService *recruitingapp.InterviewService
	gate             gin.HandlerFunc
}

// SetFeatureGate installs the feature flag gate applied to every
// recruiting route. A nil gate leaves the routes open.
func (h *RecruitingHandler) SetFeatureGate(gate gin.HandlerFunc) {
	h.gate = gate
}

// NewRecruitingHandler creates a new recruiting handler
func NewRecruitingHandler(
	recruitService *recruitingapp.RecruitService,
	interviewService *recruitingapp.InterviewService,
) *RecruitingHandler {
	return &RecruitingHandler{
		recruitService:   recruitService,
		interviewService: interviewService,
	}
}

// RegisterRoutes registers recruiting routes
func (h *RecruitingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recruits := rg.Group("/recruits")
	if h.gate != nil {
		recruits.Use(h.gate)
	}
	{
		recruits.POST("", h.Create)
		recruits.GET("", h.List)
		recruits.GET("/pipeline", h.Pipeline)
		recruits.GET("/:id", h.Get)
		recruits.PUT("/:id", h.Update)
		recruits.DELETE("/:id", h.Delete)
		recruits.POST("/:id/advance", h.Advance)
		recruits.POST("/:id/reject", h.Reject)
		recruits.POST("/:id/hire", h.Hire)
		recruits.GET("/:id/interviews", h.ListInterviews)
	}

	interviews := rg.Group("/interviews")
	if h.gate != nil {
		interviews.Use(h.gate)
	}
	{
		interviews.POST("", h.Schedule)
		interviews.GET("/upcoming", h.Upcoming)
		interviews.PUT("/:id/schedule", h.Reschedule)
		interviews.POST("/:id/outcome", h.RecordOutcome)
	}
}

// Create adds a prospect to the pipeline
func (h *RecruitingHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input recruitingapp.CreateRecruitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	recruit, err := h.recruitService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, recruit)
}

// List returns pipeline prospects visible to the actor
func (h *RecruitingHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input recruitingapp.ListRecruitsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.recruitService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Recruits, result.Total, result.Page, result.PageSize)
}

// Pipeline returns the stage-by-stage funnel
func (h *RecruitingHandler) Pipeline(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	pipeline, err := h.recruitService.Pipeline(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pipeline)
}

// Get returns one prospect
func (h *RecruitingHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	recruit, err := h.recruitService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recruit)
}

// Update edits a prospect's contact details
func (h *RecruitingHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	var input recruitingapp.UpdateRecruitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	recruit, err := h.recruitService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recruit)
}

// Delete removes a prospect from the pipeline
func (h *RecruitingHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	if err := h.recruitService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type advanceRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// Advance moves a prospect forward in the pipeline
func (h *RecruitingHandler) Advance(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	recruit, err := h.recruitService.Advance(c.Request.Context(), actor, id, req.Stage)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recruit)
}

type rejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Reject closes a prospect out of the pipeline
func (h *RecruitingHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	// The reason body is optional
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	recruit, err := h.recruitService.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recruit)
}

// Hire converts a prospect into a hired recruit
func (h *RecruitingHandler) Hire(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	recruit, err := h.recruitService.Hire(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recruit)
}

// ListInterviews returns a prospect's interview history
func (h *RecruitingHandler) ListInterviews(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid recruit ID")
		return
	}

	interviews, err := h.interviewService.ListByRecruit(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, interviews)
}

// Schedule books an interview for a prospect
func (h *RecruitingHandler) Schedule(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input recruitingapp.ScheduleInterviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	interview, err := h.interviewService.Schedule(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, interview)
}

// Upcoming returns interviews scheduled from now on
func (h *RecruitingHandler) Upcoming(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var interviewerID *uuid.UUID
	if raw := c.Query("interviewer_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid interviewer ID")
			return
		}
		interviewerID = &parsed
	}

	interviews, err := h.interviewService.Upcoming(c.Request.Context(), actor, interviewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, interviews)
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// Reschedule moves an interview to a new time
func (h *RecruitingHandler) Reschedule(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid interview ID")
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	interview, err := h.interviewService.Reschedule(c.Request.Context(), actor, id, req.ScheduledAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, interview)
}

// RecordOutcome closes an interview with its result
func (h *RecruitingHandler) RecordOutcome(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid interview ID")
		return
	}

	var input recruitingapp.OutcomeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	interview, err := h.interviewService.RecordOutcome(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, interview)
}
