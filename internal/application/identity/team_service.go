package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TeamService handles team lifecycle and configuration. Creating,
// suspending, and deleting teams is super admin territory; state
// managers may adjust their own team's goals.
type TeamService struct {
	teamRepo identity.TeamRepository
	userRepo identity.UserRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo identity.TeamRepository,
	userRepo identity.UserRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create creates a team together with its first state manager, so a
// new team is never an empty shell nobody can log in to.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*TeamDTO, *UserDTO, error) {
	s.logger.Info("Creating new team",
		zap.String("code", input.Code),
		zap.String("name", input.Name))

	exists, err := s.teamRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check team code existence", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check code availability")
	}
	if exists {
		return nil, nil, shared.NewDomainError("CODE_EXISTS", "Team code already exists")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, input.ManagerUsername)
	if err != nil {
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if taken {
		return nil, nil, shared.NewDomainError("USERNAME_EXISTS", "Manager username is already taken")
	}

	team, err := identity.NewTeam(input.Code, input.Name)
	if err != nil {
		return nil, nil, err
	}
	manager, err := identity.NewActiveUser(team.ID, input.ManagerUsername, input.ManagerPassword, identity.RoleStateManager)
	if err != nil {
		return nil, nil, err
	}
	if input.ManagerEmail != "" {
		if err := manager.SetEmail(input.ManagerEmail); err != nil {
			return nil, nil, err
		}
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		s.logger.Error("Failed to create team", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create team")
	}
	if err := s.userRepo.Create(ctx, manager); err != nil {
		s.logger.Error("Failed to create team manager", zap.Error(err))
		// Roll the team back so a retry with the same code succeeds
		if delErr := s.teamRepo.Delete(ctx, team.ID); delErr != nil {
			s.logger.Error("Failed to roll back team after manager creation failure", zap.Error(delErr))
		}
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create team manager")
	}

	s.publishEvents(ctx, team.GetDomainEvents())
	team.ClearDomainEvents()
	s.publishEvents(ctx, manager.GetDomainEvents())
	manager.ClearDomainEvents()

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("code", team.Code),
		zap.String("manager_id", manager.ID.String()))

	return toTeamDTO(team), toUserDTO(manager), nil
}

// GetByID retrieves a team by ID
func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeamDTO(team), nil
}

// GetByCode retrieves a team by its code
func (s *TeamService) GetByCode(ctx context.Context, code string) (*TeamDTO, error) {
	team, err := s.teamRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find team")
	}
	return toTeamDTO(team), nil
}

// List retrieves a paginated list of teams
func (s *TeamService) List(ctx context.Context, filter identity.TeamFilter) (*TeamListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	teams, total, err := s.teamRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list teams", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list teams")
	}

	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = *toTeamDTO(t)
	}
	return &TeamListResult{
		Teams:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Rename changes a team's display name
func (s *TeamService) Rename(ctx context.Context, id uuid.UUID, name string) (*TeamDTO, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := team.Rename(name); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		s.logger.Error("Failed to rename team", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update team")
	}
	s.logger.Info("Team renamed", zap.String("team_id", id.String()))
	return toTeamDTO(team), nil
}

// UpdateConfig updates a team's configuration. Nil input fields keep
// their current value.
func (s *TeamService) UpdateConfig(ctx context.Context, id uuid.UUID, input TeamConfigInput) (*TeamDTO, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := team.Config
	if input.Timezone != nil {
		cfg.Timezone = *input.Timezone
	}
	if input.Locale != nil {
		cfg.Locale = *input.Locale
	}
	if input.WeeklyPremiumGoal != nil {
		cfg.WeeklyPremiumGoal = *input.WeeklyPremiumGoal
	}
	if input.WeeklySalesGoal != nil {
		cfg.WeeklySalesGoal = *input.WeeklySalesGoal
	}
	if input.NPAWindowDays != nil {
		cfg.NPAWindowDays = *input.NPAWindowDays
	}
	if input.MaxUsers != nil {
		cfg.MaxUsers = *input.MaxUsers
	}

	if err := team.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		s.logger.Error("Failed to update team config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update team config")
	}

	s.logger.Info("Team config updated", zap.String("team_id", id.String()))
	return toTeamDTO(team), nil
}

// Activate re-activates a suspended or deactivated team
func (s *TeamService) Activate(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	return s.transition(ctx, id, "activated", func(t *identity.Team) error { return t.Activate() })
}

// Suspend suspends a team; members can no longer authenticate
func (s *TeamService) Suspend(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	return s.transition(ctx, id, "suspended", func(t *identity.Team) error { return t.Suspend() })
}

// Deactivate permanently deactivates a team
func (s *TeamService) Deactivate(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	return s.transition(ctx, id, "deactivated", func(t *identity.Team) error { return t.Deactivate() })
}

// Delete removes a deactivated, empty team
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return err
	}
	if team.Status != identity.TeamStatusDeactivated {
		return shared.NewDomainError("TEAM_NOT_DEACTIVATED", "Only deactivated teams can be deleted")
	}
	count, err := s.userRepo.CountByTeam(ctx, id)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to count team members")
	}
	if count > 0 {
		return shared.NewDomainError("TEAM_NOT_EMPTY", "Remove all team members before deleting the team")
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete team", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete team")
	}

	s.logger.Info("Team deleted", zap.String("team_id", id.String()))
	return nil
}

// Count returns the total number of teams
func (s *TeamService) Count(ctx context.Context) (int64, error) {
	return s.teamRepo.Count(ctx)
}

// Stats returns member counts for a team broken down by status
func (s *TeamService) Stats(ctx context.Context, id uuid.UUID) (*TeamStatsDTO, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.userRepo.CountByTeamGroupedByStatus(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count team members", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count team members")
	}

	stats := &TeamStatsDTO{
		TeamID:           team.ID,
		ActiveUsers:      counts[identity.UserStatusActive],
		PendingUsers:     counts[identity.UserStatusPending],
		LockedUsers:      counts[identity.UserStatusLocked],
		DeactivatedUsers: counts[identity.UserStatusDeactivated],
		MaxUsers:         team.Config.MaxUsers,
	}
	for _, n := range counts {
		stats.TotalUsers += n
	}
	return stats, nil
}

func (s *TeamService) findTeam(ctx context.Context, id uuid.UUID) (*identity.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team not found")
		}
		s.logger.Error("Failed to find team", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find team")
	}
	return team, nil
}

func (s *TeamService) transition(ctx context.Context, id uuid.UUID, action string, fn func(*identity.Team) error) (*TeamDTO, error) {
	team, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(team); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		s.logger.Error("Failed to update team status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update team")
	}
	s.logger.Info("Team "+action, zap.String("team_id", id.String()))
	return toTeamDTO(team), nil
}

func (s *TeamService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish team events", zap.Error(err))
	}
}
