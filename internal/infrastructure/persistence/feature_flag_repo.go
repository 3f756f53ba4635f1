package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeatureFlagRepository implements featureflag.Repository using GORM
type GormFeatureFlagRepository struct {
	db *team.TeamDB
}

// NewGormFeatureFlagRepository creates a new GormFeatureFlagRepository
func NewGormFeatureFlagRepository(db *gorm.DB) *GormFeatureFlagRepository {
	return &GormFeatureFlagRepository{db: team.NewTeamDB(db)}
}

// Save upserts a team's flag for a feature. A feature with no row falls
// back to its default, so the first write creates the row.
func (r *GormFeatureFlagRepository) Save(ctx context.Context, flag *featureflag.Flag) error {
	model := models.FlagModelFromDomain(flag)
	return r.db.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "team_id"}, {Name: "feature"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "role_overrides", "updated_at", "version",
			}),
		}).
		Create(model).Error
}

// FindByTeam returns every stored flag for a team
func (r *GormFeatureFlagRepository) FindByTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, error) {
	var flagModels []*models.FlagModel
	if err := r.db.ForTeam(ctx, teamID).
		Order("feature ASC").
		Find(&flagModels).Error; err != nil {
		return nil, err
	}

	flags := make([]*featureflag.Flag, len(flagModels))
	for i, model := range flagModels {
		flags[i] = model.ToDomain()
	}

	return flags, nil
}

// FindByTeamAndFeature returns one team's flag for one feature
func (r *GormFeatureFlagRepository) FindByTeamAndFeature(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature) (*featureflag.Flag, error) {
	var model models.FlagModel
	if err := r.db.ForTeam(ctx, teamID).
		Where("feature = ?", feature).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Delete removes a team's stored flag, restoring the feature default
func (r *GormFeatureFlagRepository) Delete(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature) error {
	result := r.db.ForTeam(ctx, teamID).
		Where("feature = ?", feature).
		Delete(&models.FlagModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFeatureFlagRepository implements featureflag.Repository
var _ featureflag.Repository = (*GormFeatureFlagRepository)(nil)
