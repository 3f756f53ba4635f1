package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reportapp "github.com/salespulse/backend/internal/application/report"
	"github.com/salespulse/backend/internal/domain/featureflag"
)

// ReportHandler serves rollups, leaderboards, trends, and trackers
type ReportHandler struct {
	BaseHandler
	reportService  *reportapp.ReportService
	trackerService *reportapp.TrackerService
	exportService  *reportapp.ExportService
	gate           func(featureflag.Feature) gin.HandlerFunc
}

// SetFeatureGate installs a per-feature gate builder. Leaderboard,
// tracker, and export routes each sit behind their own flag.
func (h *ReportHandler) SetFeatureGate(gate func(featureflag.Feature) gin.HandlerFunc) {
	h.gate = gate
}

func (h *ReportHandler) gated(feature featureflag.Feature, fn gin.HandlerFunc) []gin.HandlerFunc {
	if h.gate == nil {
		return []gin.HandlerFunc{fn}
	}
	return []gin.HandlerFunc{h.gate(feature), fn}
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService *reportapp.ReportService,
	trackerService *reportapp.TrackerService,
	exportService *reportapp.ExportService,
) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		trackerService: trackerService,
		exportService:  exportService,
	}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.TeamSummary)
		reports.GET("/summary/users/:id", h.UserSummary)
		reports.GET("/leaderboard", h.gated(featureflag.FeatureLeaderboard, h.Leaderboard)...)
		reports.GET("/trend", h.Trend)
		reports.GET("/npa", h.gated(featureflag.FeatureNPATracker, h.NPA)...)
		reports.GET("/sna", h.gated(featureflag.FeatureSNATracker, h.SNA)...)
		reports.GET("/summary/export", h.gated(featureflag.FeatureReportsExport, h.ExportTeamSummary)...)
		reports.GET("/leaderboard/export", h.gated(featureflag.FeatureReportsExport, h.ExportLeaderboard)...)
	}
}

type periodRequest struct {
	PeriodType string     `form:"period_type"`
	Date       string     `form:"date"`
	TeamID     *uuid.UUID `form:"team_id"`
}

func (r periodRequest) toInput() (reportapp.PeriodInput, error) {
	input := reportapp.PeriodInput{
		PeriodType: r.PeriodType,
		TeamID:     r.TeamID,
	}
	if r.Date != "" {
		date, err := parseDate(r.Date)
		if err != nil {
			return input, err
		}
		input.Date = date
	}
	return input, nil
}

// TeamSummary returns the rollup over the actor's visibility set
func (h *ReportHandler) TeamSummary(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req periodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.TeamSummary(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// UserSummary returns one user's totals over a period
func (h *ReportHandler) UserSummary(c *gin.Context) {
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

	var req periodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.UserSummary(c.Request.Context(), actor, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

type leaderboardRequest struct {
	periodRequest
	Metric string `form:"metric"`
	Limit  int    `form:"limit"`
}

func (r leaderboardRequest) toInput() (reportapp.LeaderboardInput, error) {
	period, err := r.periodRequest.toInput()
	if err != nil {
		return reportapp.LeaderboardInput{}, err
	}
	return reportapp.LeaderboardInput{
		PeriodInput: period,
		Metric:      r.Metric,
		Limit:       r.Limit,
	}, nil
}

// Leaderboard returns the ranked standings for one period and metric
func (h *ReportHandler) Leaderboard(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req leaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	board, err := h.reportService.Leaderboard(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, board)
}

type trendRequest struct {
	periodRequest
	Buckets int        `form:"buckets"`
	UserID  *uuid.UUID `form:"user_id"`
}

// Trend returns a metric series over the trailing periods
func (h *ReportHandler) Trend(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req trendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	period, err := req.periodRequest.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	points, err := h.reportService.Trend(c.Request.Context(), actor, reportapp.TrendInput{
		PeriodInput: period,
		Buckets:     req.Buckets,
		UserID:      req.UserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, points)
}

// NPA returns the new-producer tracker
func (h *ReportHandler) NPA(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	teamID, ok2 := h.optionalTeamID(c)
	if !ok2 {
		return
	}

	report, err := h.trackerService.NPA(c.Request.Context(), actor, teamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// SNA returns the weekly standing against the team's goals
func (h *ReportHandler) SNA(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	teamID, ok2 := h.optionalTeamID(c)
	if !ok2 {
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	status, err := h.trackerService.SNA(c.Request.Context(), actor, teamID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ExportTeamSummary streams the period rollup as an .xlsx workbook
func (h *ReportHandler) ExportTeamSummary(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req periodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	export, err := h.exportService.ExportTeamSummary(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.streamExport(c, export)
}

// ExportLeaderboard streams the leaderboard as an .xlsx workbook
func (h *ReportHandler) ExportLeaderboard(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req leaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	export, err := h.exportService.ExportLeaderboard(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.streamExport(c, export)
}

func (h *ReportHandler) streamExport(c *gin.Context, export *reportapp.Export) {
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// optionalTeamID reads the team_id query parameter. The second return
// is false when a response has already been written.
func (h *ReportHandler) optionalTeamID(c *gin.Context) (*uuid.UUID, bool) {
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
