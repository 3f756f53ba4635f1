package featureflag

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// FlagService manages per-team feature flags. Mutations go through the
// repository and invalidate the team's cache entry so evaluation picks
// the change up immediately.
type FlagService struct {
	flagRepo featureflag.Repository
	teamRepo identity.TeamRepository
	cache    featureflag.FlagCache
	logger   *zap.Logger
}

// NewFlagService creates a flag service.
func NewFlagService(
	flagRepo featureflag.Repository,
	teamRepo identity.TeamRepository,
	cache featureflag.FlagCache,
	logger *zap.Logger,
) *FlagService {
	return &FlagService{
		flagRepo: flagRepo,
		teamRepo: teamRepo,
		cache:    cache,
		logger:   logger,
	}
}

// List returns every known feature with the team's configured state and
// the resolved value per role.
func (s *FlagService) List(ctx context.Context, actor *identity.User, teamID *uuid.UUID) ([]FlagDTO, error) {
	team, err := s.teamFor(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}

	flags, err := s.flagRepo.FindByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	byFeature := make(map[featureflag.Feature]*featureflag.Flag, len(flags))
	for _, f := range flags {
		byFeature[f.Feature] = f
	}

	result := make([]FlagDTO, 0, len(featureflag.AllFeatures()))
	for _, feature := range featureflag.AllFeatures() {
		result = append(result, toFlagDTO(feature, byFeature[feature], flags))
	}
	return result, nil
}

// SetFlag sets a team's default for one feature, creating the flag on
// first configuration.
func (s *FlagService) SetFlag(ctx context.Context, actor *identity.User, input SetFlagInput) (*FlagDTO, error) {
	team, feature, err := s.mutationTarget(ctx, actor, input.TeamID, input.Feature)
	if err != nil {
		return nil, err
	}

	flag, err := s.findOrCreate(ctx, team.ID, feature, input.Enabled)
	if err != nil {
		return nil, err
	}
	flag.SetEnabled(input.Enabled)

	return s.save(ctx, team.ID, feature, flag)
}

// SetRoleOverride pins a feature on or off for one role in a team.
func (s *FlagService) SetRoleOverride(ctx context.Context, actor *identity.User, input RoleOverrideInput) (*FlagDTO, error) {
	team, feature, err := s.mutationTarget(ctx, actor, input.TeamID, input.Feature)
	if err != nil {
		return nil, err
	}
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	flag, err := s.findOrCreate(ctx, team.ID, feature, feature.DefaultEnabled())
	if err != nil {
		return nil, err
	}
	if err := flag.SetRoleOverride(role, input.Enabled); err != nil {
		return nil, err
	}

	return s.save(ctx, team.ID, feature, flag)
}

// ClearRoleOverride removes a role's pin, restoring the team default.
func (s *FlagService) ClearRoleOverride(ctx context.Context, actor *identity.User, input ClearOverrideInput) (*FlagDTO, error) {
	team, feature, err := s.mutationTarget(ctx, actor, input.TeamID, input.Feature)
	if err != nil {
		return nil, err
	}
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	flag, err := s.flagRepo.FindByTeamAndFeature(ctx, team.ID, feature)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FLAG_NOT_CONFIGURED", "Feature has no team configuration")
		}
		return nil, err
	}
	flag.ClearRoleOverride(role)

	return s.save(ctx, team.ID, feature, flag)
}

// Reset drops a team's configuration for a feature, restoring the
// built-in default for every role.
func (s *FlagService) Reset(ctx context.Context, actor *identity.User, teamID *uuid.UUID, featureName string) error {
	team, feature, err := s.mutationTarget(ctx, actor, teamID, featureName)
	if err != nil {
		return err
	}

	if err := s.flagRepo.Delete(ctx, team.ID, feature); err != nil {
		return err
	}
	s.invalidate(ctx, team.ID)

	s.logger.Info("feature flag reset",
		zap.String("team_id", team.ID.String()),
		zap.String("feature", feature.String()))
	return nil
}

// teamFor resolves which team the call operates on. Only super admins
// may name a team; everyone else is pinned to their own.
func (s *FlagService) teamFor(ctx context.Context, actor *identity.User, teamID *uuid.UUID) (*identity.Team, error) {
	target := actor.TeamID
	if teamID != nil && *teamID != actor.TeamID {
		if actor.Role != identity.RoleSuperAdmin {
			return nil, shared.ErrForbidden
		}
		target = *teamID
	}
	if target == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "A team must be specified")
	}
	return s.teamRepo.FindByID(ctx, target)
}

// mutationTarget is teamFor plus the write permission check: flags are
// changed by super admins and the team's state manager only.
func (s *FlagService) mutationTarget(ctx context.Context, actor *identity.User, teamID *uuid.UUID, featureName string) (*identity.Team, featureflag.Feature, error) {
	if actor.Role != identity.RoleSuperAdmin && actor.Role != identity.RoleStateManager {
		return nil, "", shared.ErrForbidden
	}
	team, err := s.teamFor(ctx, actor, teamID)
	if err != nil {
		return nil, "", err
	}
	feature, err := featureflag.ParseFeature(featureName)
	if err != nil {
		return nil, "", err
	}
	return team, feature, nil
}

func (s *FlagService) findOrCreate(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature, enabled bool) (*featureflag.Flag, error) {
	flag, err := s.flagRepo.FindByTeamAndFeature(ctx, teamID, feature)
	if err == nil {
		return flag, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return featureflag.NewFlag(teamID, feature, enabled)
}

func (s *FlagService) save(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature, flag *featureflag.Flag) (*FlagDTO, error) {
	if err := s.flagRepo.Save(ctx, flag); err != nil {
		return nil, err
	}
	s.invalidate(ctx, teamID)

	flags, err := s.flagRepo.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	dto := toFlagDTO(feature, flag, flags)

	s.logger.Info("feature flag updated",
		zap.String("team_id", teamID.String()),
		zap.String("feature", feature.String()),
		zap.Bool("enabled", flag.Enabled))
	return &dto, nil
}

func (s *FlagService) invalidate(ctx context.Context, teamID uuid.UUID) {
	if err := s.cache.InvalidateTeam(ctx, teamID); err != nil {
		s.logger.Warn("flag cache invalidation failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
}
