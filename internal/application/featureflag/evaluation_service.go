package featureflag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// EvaluationService answers "is this feature on for this role" on the
// hot path. Flag sets are read through the cache; a cache failure falls
// back to the repository rather than failing the request.
type EvaluationService struct {
	flagRepo featureflag.Repository
	cache    featureflag.FlagCache
	config   featureflag.CacheConfig
	logger   *zap.Logger
}

// NewEvaluationService creates an evaluation service.
func NewEvaluationService(
	flagRepo featureflag.Repository,
	cache featureflag.FlagCache,
	config featureflag.CacheConfig,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		flagRepo: flagRepo,
		cache:    cache,
		config:   config,
		logger:   logger,
	}
}

// IsEnabled resolves one feature for a role in a team. Super admins see
// every feature regardless of team configuration.
func (s *EvaluationService) IsEnabled(ctx context.Context, teamID uuid.UUID, role identity.Role, feature featureflag.Feature) (bool, error) {
	if !feature.IsValid() {
		return false, shared.NewDomainError("UNKNOWN_FEATURE", "Unknown feature: "+feature.String())
	}
	if role == identity.RoleSuperAdmin {
		return true, nil
	}

	flags, err := s.teamFlags(ctx, teamID)
	if err != nil {
		return false, err
	}
	return featureflag.Evaluate(flags, feature, role), nil
}

// RequireEnabled is IsEnabled shaped for gating: disabled features come
// back as ErrFeatureDisabled.
func (s *EvaluationService) RequireEnabled(ctx context.Context, teamID uuid.UUID, role identity.Role, feature featureflag.Feature) error {
	enabled, err := s.IsEnabled(ctx, teamID, role, feature)
	if err != nil {
		return err
	}
	if !enabled {
		return shared.ErrFeatureDisabled
	}
	return nil
}

// EvaluateAll resolves every known feature for a role in one pass.
func (s *EvaluationService) EvaluateAll(ctx context.Context, teamID uuid.UUID, role identity.Role) (map[featureflag.Feature]bool, error) {
	result := make(map[featureflag.Feature]bool, len(featureflag.AllFeatures()))
	if role == identity.RoleSuperAdmin {
		for _, feature := range featureflag.AllFeatures() {
			result[feature] = true
		}
		return result, nil
	}

	flags, err := s.teamFlags(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, feature := range featureflag.AllFeatures() {
		result[feature] = featureflag.Evaluate(flags, feature, role)
	}
	return result, nil
}

// teamFlags loads a team's flag set through the cache.
func (s *EvaluationService) teamFlags(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, error) {
	flags, ok, err := s.cache.GetTeam(ctx, teamID)
	if err != nil {
		s.logger.Warn("flag cache read failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	} else if ok {
		return flags, nil
	}

	flags, err = s.flagRepo.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTeam(ctx, teamID, flags, s.config.TTL); err != nil {
		s.logger.Warn("flag cache write failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
	return flags, nil
}
