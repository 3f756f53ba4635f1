package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/document"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *team.TeamDB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: team.NewTeamDB(db)}
}

// Create creates new document metadata
func (r *GormDocumentRepository) Create(ctx context.Context, d *document.Document) error {
	model := models.DocumentModelFromDomain(d)
	return r.db.DB().WithContext(ctx).Create(model).Error
}

// Update updates existing document metadata
func (r *GormDocumentRepository) Update(ctx context.Context, d *document.Document) error {
	model := models.DocumentModelFromDomain(d)
	result := r.db.ForTeam(ctx, d.TeamID).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes document metadata by ID within a team
func (r *GormDocumentRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	result := r.db.ForTeam(ctx, teamID).
		Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds document metadata by ID within a team
func (r *GormDocumentRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.ForTeam(ctx, teamID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns documents the viewer's rank may see, newest first.
// MaxRank filters by the min_role column's rank.
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter document.Filter) ([]*document.Document, int64, error) {
	var documentModels []*models.DocumentModel
	var total int64

	query := r.db.ForTeam(ctx, filter.TeamID).
		Model(&models.DocumentModel{})

	if filter.MaxRank > 0 {
		visible := rolesAtOrBelowRank(filter.MaxRank)
		query = query.Where("min_role IN ?", visible)
	}
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"title ILIKE ? OR file_name ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&documentModels).Error; err != nil {
		return nil, 0, err
	}

	documents := make([]*document.Document, len(documentModels))
	for i, model := range documentModels {
		documents[i] = model.ToDomain()
	}

	return documents, total, nil
}

// rolesAtOrBelowRank returns the role names whose rank does not exceed
// the given rank, for use in a min_role IN clause
func rolesAtOrBelowRank(rank int) []identity.Role {
	var roles []identity.Role
	for _, role := range identity.AllRoles() {
		if role.Rank() <= rank {
			roles = append(roles, role)
		}
	}
	return roles
}

// Ensure GormDocumentRepository implements document.Repository
var _ document.Repository = (*GormDocumentRepository)(nil)
