package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/activity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"github.com/salespulse/backend/internal/infrastructure/persistence/visibility"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *team.TeamDB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: team.NewTeamDB(db)}
}

// Create creates a new activity record. The unique (user, day) index
// rejects a second record for the same day; that surfaces as
// ErrAlreadyExists so callers can fall through to Update.
func (r *GormActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	model := models.ActivityModelFromDomain(a)
	if err := r.db.DB().WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing activity record
func (r *GormActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	model := models.ActivityModelFromDomain(a)
	result := r.db.ForTeam(ctx, a.TeamID).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an activity record by ID within a team
func (r *GormActivityRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	result := r.db.ForTeam(ctx, teamID).
		Delete(&models.ActivityModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an activity record by ID within a team
func (r *GormActivityRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*activity.Activity, error) {
	var model models.ActivityModel
	if err := r.db.ForTeam(ctx, teamID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserAndDate returns the single record for one user on one day
func (r *GormActivityRepository) FindByUserAndDate(ctx context.Context, teamID, userID uuid.UUID, date time.Time) (*activity.Activity, error) {
	var model models.ActivityModel
	if err := r.db.ForTeam(ctx, teamID).
		Where("user_id = ?", userID).
		Where("activity_date = ?", date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns activity records matching the filter, newest day first
func (r *GormActivityRepository) FindAll(ctx context.Context, filter activity.Filter) ([]*activity.Activity, int64, error) {
	var activityModels []*models.ActivityModel
	var total int64

	query := r.db.ForTeam(ctx, filter.TeamID).
		Model(&models.ActivityModel{})

	query = visibility.OwnerIn(query, "user_id", filter.UserIDs)
	if !filter.From.IsZero() {
		query = query.Where("activity_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("activity_date <= ?", filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("activity_date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&activityModels).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]*activity.Activity, len(activityModels))
	for i, model := range activityModels {
		activities[i] = model.ToDomain()
	}

	return activities, total, nil
}

// Ensure GormActivityRepository implements activity.Repository
var _ activity.Repository = (*GormActivityRepository)(nil)
