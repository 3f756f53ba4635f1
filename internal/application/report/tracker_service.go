package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/report"
	"github.com/salespulse/backend/internal/domain/shared"
)

// TrackerService builds the New Producer Activity (NPA) and Submitted
// and Net Application (SNA) trackers. Both read through the same
// visibility gate as the period reports.
type TrackerService struct {
	reportRepo report.Repository
	userRepo   identity.UserRepository
	teamRepo   identity.TeamRepository
	visibility *identityapp.VisibilityService
	logger     *zap.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(
	reportRepo report.Repository,
	userRepo identity.UserRepository,
	teamRepo identity.TeamRepository,
	visibility *identityapp.VisibilityService,
	logger *zap.Logger,
) *TrackerService {
	return &TrackerService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		visibility: visibility,
		logger:     logger,
	}
}

// NPA returns every visible producer still inside the team's new
// producer window with their since-hire totals, newest hire first
func (s *TrackerService) NPA(ctx context.Context, actor *identity.User, teamID *uuid.UUID) (*NPAReportDTO, error) {
	team, err := s.teamFor(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	users, err := s.visibleUsers(ctx, team.ID, vis)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	windowDays := team.Config.NPAWindowDays
	candidates := make([]*identity.User, 0)
	ids := make([]uuid.UUID, 0)
	for _, u := range users {
		if u.IsNewProducer(now, windowDays) {
			candidates = append(candidates, u)
			ids = append(ids, u.ID)
		}
	}

	totals := map[uuid.UUID]report.Totals{}
	if len(ids) > 0 {
		totals, err = s.reportRepo.TotalsByUserSinceHire(ctx, team.ID, ids)
		if err != nil {
			s.logger.Error("Failed to load since-hire totals", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build NPA tracker")
		}
	}

	npa := report.BuildNPAReport(candidates, totals, now, windowDays)
	entries := make([]NPAEntryDTO, len(npa.Entries))
	for i, e := range npa.Entries {
		entries[i] = NPAEntryDTO{
			UserID:        e.UserID,
			Username:      e.Username,
			DisplayName:   e.DisplayName,
			Role:          e.Role,
			HiredAt:       e.HiredAt,
			DaysInWindow:  e.DaysInWindow,
			DaysRemaining: e.DaysRemaining,
			Totals:        toTotalsDTO(e.Totals),
		}
	}
	return &NPAReportDTO{
		WindowDays: npa.WindowDays,
		AsOf:       npa.AsOf,
		Entries:    entries,
	}, nil
}

// SNA returns the week's standing against the team's goals, with each
// visible user's attainment of those same goals
func (s *TrackerService) SNA(ctx context.Context, actor *identity.User, teamID *uuid.UUID, date time.Time) (*SNAStatusDTO, error) {
	team, err := s.teamFor(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	week, err := report.PeriodContaining(report.PeriodWeek, date, team.Location())
	if err != nil {
		return nil, err
	}
	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	q := report.Query{
		TeamID:  team.ID,
		UserIDs: vis.UserIDs,
		From:    week.Start,
		To:      week.End,
	}
	totals, err := s.reportRepo.TeamTotals(ctx, q)
	if err != nil {
		s.logger.Error("Failed to aggregate weekly totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build SNA tracker")
	}
	rows, err := s.reportRepo.UserTotals(ctx, q)
	if err != nil {
		s.logger.Error("Failed to aggregate weekly user totals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build SNA tracker")
	}

	status := report.BuildSNAStatus(week, team.Config, totals)
	users := make([]SNAUserEntryDTO, len(rows))
	for i, r := range rows {
		users[i] = SNAUserEntryDTO{
			UserID:            r.UserID,
			Username:          r.Username,
			DisplayName:       r.DisplayName,
			Premium:           r.Premium,
			PremiumAttainment: attainment(r.Premium, team.Config.WeeklyPremiumGoal),
			Sales:             r.Sales,
			SalesAttainment:   attainment(decimal.NewFromInt(r.Sales), decimal.NewFromInt(int64(team.Config.WeeklySalesGoal))),
		}
	}

	return &SNAStatusDTO{
		Period:            toPeriodDTO(status.Period),
		Premium:           status.Premium,
		PremiumGoal:       status.PremiumGoal,
		PremiumAttainment: status.PremiumAttainment,
		Sales:             status.Sales,
		SalesGoal:         status.SalesGoal,
		SalesAttainment:   status.SalesAttainment,
		OnTrack:           status.OnTrack,
		Users:             users,
	}, nil
}

// visibleUsers loads every user in the actor's visibility set, paging
// through the team when the scope is unbounded
func (s *TrackerService) visibleUsers(ctx context.Context, teamID uuid.UUID, vis identityapp.Visibility) ([]*identity.User, error) {
	if vis.UserIDs != nil {
		users, err := s.userRepo.FindByIDs(ctx, teamID, vis.UserIDs)
		if err != nil {
			s.logger.Error("Failed to load visible users", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load users")
		}
		return users, nil
	}

	filter := identity.NewUserFilter()
	filter.TeamID = teamID
	filter.PageSize = 100
	var all []*identity.User
	for {
		users, total, err := s.userRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to load team members", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load users")
		}
		all = append(all, users...)
		if int64(len(all)) >= total || len(users) == 0 {
			break
		}
		filter.Page++
	}
	return all, nil
}

func (s *TrackerService) teamFor(ctx context.Context, actor *identity.User, override *uuid.UUID) (*identity.Team, error) {
	teamID := actor.TeamID
	if override != nil {
		if actor.Role != identity.RoleSuperAdmin && *override != actor.TeamID {
			return nil, shared.NewDomainError("FORBIDDEN", "Trackers are limited to your own team")
		}
		teamID = *override
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "A team must be specified for this tracker")
	}
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team not found")
	}
	return team, nil
}

// attainment is value/goal as a percentage. A zero goal yields zero
// rather than a division error; OnTrack handling treats it as met.
func attainment(value, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.Zero
	}
	return value.Div(goal).Mul(decimal.NewFromInt(100)).Round(1)
}
