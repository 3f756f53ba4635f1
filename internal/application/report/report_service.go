package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/report"
	"github.com/salespulse/backend/internal/domain/shared"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
	defaultTrendBuckets     = 12
	maxTrendBuckets         = 60
)

// ReportService aggregates activity into period reports. Every read is
// scoped to the caller's visibility set; the SQL underneath never
// leaves the team.
type ReportService struct {
	reportRepo report.Repository
	userRepo   identity.UserRepository
	teamRepo   identity.TeamRepository
	visibility *identityapp.VisibilityService
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo report.Repository,
	userRepo identity.UserRepository,
	teamRepo identity.TeamRepository,
	visibility *identityapp.VisibilityService,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		visibility: visibility,
		logger:     logger,
	}
}

// reportScope is a resolved report request: whose team, which period,
// which users the caller may see.
type reportScope struct {
	team   *identity.Team
	period report.Period
	vis    identityapp.Visibility
}

// TeamSummary returns the rollup over the actor's visibility set for
// one period, with the per-member breakdown
func (s *ReportService) TeamSummary(ctx context.Context, actor *identity.User, input PeriodInput) (*TeamSummaryDTO, error) {
	scope, err := s.resolveScope(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	q := s.query(scope)

	totals, err := s.reportRepo.TeamTotals(ctx, q)
	if err != nil {
		s.logger.Error("Failed to aggregate team totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build team summary")
	}
	members, err := s.reportRepo.UserTotals(ctx, q)
	if err != nil {
		s.logger.Error("Failed to aggregate member totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build team summary")
	}
	active, err := s.reportRepo.ActiveUserCount(ctx, q)
	if err != nil {
		s.logger.Error("Failed to count active users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build team summary")
	}

	dtos := make([]UserSummaryDTO, len(members))
	for i, m := range members {
		dtos[i] = toUserSummaryDTO(m)
	}
	return &TeamSummaryDTO{
		TeamID:      scope.team.ID,
		Period:      toPeriodDTO(scope.period),
		Totals:      toTotalsDTO(totals),
		ActiveUsers: active,
		Members:     dtos,
	}, nil
}

// UserSummary returns one visible user's totals for a period
func (s *ReportService) UserSummary(ctx context.Context, actor *identity.User, userID uuid.UUID, input PeriodInput) (*UserSummaryDTO, error) {
	target, err := s.readableUser(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	team, err := s.loadTeam(ctx, target.TeamID)
	if err != nil {
		return nil, err
	}
	period, err := s.periodFor(input, team)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.UserTotals(ctx, report.Query{
		TeamID:  target.TeamID,
		UserIDs: []uuid.UUID{target.ID},
		From:    period.Start,
		To:      period.End,
	})
	if err != nil {
		s.logger.Error("Failed to aggregate user totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build user summary")
	}

	if len(rows) == 0 {
		// No activity in range still yields a zero-valued row
		dto := UserSummaryDTO{
			UserID:      target.ID,
			Username:    target.Username,
			DisplayName: target.GetDisplayNameOrUsername(),
			Role:        target.Role,
		}
		return &dto, nil
	}
	dto := toUserSummaryDTO(rows[0])
	return &dto, nil
}

// Leaderboard ranks the whole team by one metric for a period. The
// board is team-wide on purpose: agents compare themselves against
// the room, not just their own branch.
func (s *ReportService) Leaderboard(ctx context.Context, actor *identity.User, input LeaderboardInput) (*LeaderboardDTO, error) {
	metric, err := report.ParseLeaderboardMetric(input.Metric)
	if err != nil {
		return nil, err
	}
	team, err := s.teamFor(ctx, actor, input.TeamID)
	if err != nil {
		return nil, err
	}
	period, err := s.periodFor(input.PeriodInput, team)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	rows, err := s.reportRepo.UserTotals(ctx, report.Query{
		TeamID: team.ID,
		From:   period.Start,
		To:     period.End,
	})
	if err != nil {
		s.logger.Error("Failed to aggregate leaderboard totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build leaderboard")
	}

	board := report.Rank(period, metric, rows, limit)
	entries := make([]LeaderboardEntryDTO, len(board.Entries))
	for i, e := range board.Entries {
		entries[i] = LeaderboardEntryDTO{
			Rank:        e.Rank,
			UserID:      e.UserID,
			Username:    e.Username,
			DisplayName: e.DisplayName,
			Role:        e.Role,
			Value:       e.Value,
		}
	}
	return &LeaderboardDTO{
		Period:  toPeriodDTO(period),
		Metric:  string(metric),
		Entries: entries,
	}, nil
}

// Trend returns a per-bucket series for sparkline charts, oldest
// bucket first
func (s *ReportService) Trend(ctx context.Context, actor *identity.User, input TrendInput) ([]TrendPointDTO, error) {
	scope, err := s.resolveScope(ctx, actor, input.PeriodInput)
	if err != nil {
		return nil, err
	}

	buckets := input.Buckets
	if buckets <= 0 {
		buckets = defaultTrendBuckets
	}
	if buckets > maxTrendBuckets {
		buckets = maxTrendBuckets
	}
	periods := report.LastPeriods(scope.period, buckets)

	q := s.query(scope)
	q.From = periods[0].Start
	q.To = scope.period.End
	if input.UserID != nil {
		if !scope.vis.Contains(*input.UserID) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		q.UserIDs = []uuid.UUID{*input.UserID}
	}

	days, err := s.reportRepo.DailyTotals(ctx, q)
	if err != nil {
		s.logger.Error("Failed to load daily totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build trend")
	}

	points := report.BuildTrend(periods, days)
	dtos := make([]TrendPointDTO, len(points))
	for i, p := range points {
		dtos[i] = TrendPointDTO{
			Period: toPeriodDTO(p.Period),
			Totals: toTotalsDTO(p.Totals),
		}
	}
	return dtos, nil
}

// resolveScope loads the team, computes the period in its timezone,
// and resolves the actor's visibility
func (s *ReportService) resolveScope(ctx context.Context, actor *identity.User, input PeriodInput) (reportScope, error) {
	team, err := s.teamFor(ctx, actor, input.TeamID)
	if err != nil {
		return reportScope{}, err
	}
	period, err := s.periodFor(input, team)
	if err != nil {
		return reportScope{}, err
	}
	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return reportScope{}, err
	}
	return reportScope{team: team, period: period, vis: vis}, nil
}

func (s *ReportService) query(scope reportScope) report.Query {
	return report.Query{
		TeamID:  scope.team.ID,
		UserIDs: scope.vis.UserIDs,
		From:    scope.period.Start,
		To:      scope.period.End,
	}
}

// teamFor resolves which team a report runs against. Only super
// admins may point a report at another team.
func (s *ReportService) teamFor(ctx context.Context, actor *identity.User, override *uuid.UUID) (*identity.Team, error) {
	teamID := actor.TeamID
	if override != nil {
		if actor.Role != identity.RoleSuperAdmin && *override != actor.TeamID {
			return nil, shared.NewDomainError("FORBIDDEN", "Reports are limited to your own team")
		}
		teamID = *override
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "A team must be specified for this report")
	}
	return s.loadTeam(ctx, teamID)
}

func (s *ReportService) loadTeam(ctx context.Context, teamID uuid.UUID) (*identity.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load team")
	}
	return team, nil
}

func (s *ReportService) periodFor(input PeriodInput, team *identity.Team) (report.Period, error) {
	pt, err := report.ParsePeriodType(input.PeriodType)
	if err != nil {
		return report.Period{}, err
	}
	at := input.Date
	if at.IsZero() {
		at = time.Now()
	}
	return report.PeriodContaining(pt, at, team.Location())
}

func (s *ReportService) readableUser(ctx context.Context, actor *identity.User, userID uuid.UUID) (*identity.User, error) {
	if userID == actor.ID {
		return actor, nil
	}
	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	ok, err := s.visibility.CanAccessUser(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return target, nil
}
