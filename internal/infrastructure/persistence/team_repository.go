package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTeamRepository implements TeamRepository using GORM.
// Teams are the tenant boundary, so this repository is never team-scoped.
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing team
func (r *GormTeamRepository) Update(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a team by ID
func (r *GormTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TeamModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a team by its unique code
func (r *GormTeamRepository) FindByCode(ctx context.Context, code string) (*identity.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns teams matching the filter with pagination
func (r *GormTeamRepository) FindAll(ctx context.Context, filter identity.TeamFilter) ([]*identity.Team, int64, error) {
	var teamModels []*models.TeamModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TeamModel{})

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, TeamSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(sortBy + " " + sortOrder)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	if err := query.Find(&teamModels).Error; err != nil {
		return nil, 0, err
	}

	teams := make([]*identity.Team, len(teamModels))
	for i, model := range teamModels {
		teams[i] = model.ToDomain()
	}

	return teams, total, nil
}

// ExistsByCode checks if a team code already exists
func (r *GormTeamRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of teams
func (r *GormTeamRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TeamModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTeamRepository implements TeamRepository
var _ identity.TeamRepository = (*GormTeamRepository)(nil)
