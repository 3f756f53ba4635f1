package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"gorm.io/gorm"
)

// GormInviteRepository implements InviteRepository using GORM
type GormInviteRepository struct {
	db *team.TeamDB
}

// NewGormInviteRepository creates a new GormInviteRepository
func NewGormInviteRepository(db *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: team.NewTeamDB(db)}
}

// Create creates a new invite
func (r *GormInviteRepository) Create(ctx context.Context, invite *identity.Invite) error {
	model := models.InviteModelFromDomain(invite)
	return r.db.DB().WithContext(ctx).Create(model).Error
}

// Update updates an existing invite
func (r *GormInviteRepository) Update(ctx context.Context, invite *identity.Invite) error {
	model := models.InviteModelFromDomain(invite)
	result := r.db.DB().WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an invite by ID
func (r *GormInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invite, error) {
	var model models.InviteModel
	if err := r.db.DB().WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an invite by its code. Codes are the public handle
// used on the acceptance endpoint, so the lookup is not team-scoped.
func (r *GormInviteRepository) FindByCode(ctx context.Context, code string) (*identity.Invite, error) {
	var model models.InviteModel
	if err := r.db.DB().WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTeam lists a team's invites, optionally only the open ones
func (r *GormInviteRepository) FindByTeam(ctx context.Context, teamID uuid.UUID, pendingOnly bool) ([]*identity.Invite, error) {
	query := r.db.ForTeam(ctx, teamID).
		Order("created_at DESC")

	if pendingOnly {
		query = query.
			Where("accepted_at IS NULL").
			Where("revoked_at IS NULL").
			Where("expires_at > NOW()")
	}

	var inviteModels []*models.InviteModel
	if err := query.Find(&inviteModels).Error; err != nil {
		return nil, err
	}

	invites := make([]*identity.Invite, len(inviteModels))
	for i, model := range inviteModels {
		invites[i] = model.ToDomain()
	}

	return invites, nil
}

// HasPendingForEmail checks whether an open invite already exists for
// the email within the team
func (r *GormInviteRepository) HasPendingForEmail(ctx context.Context, teamID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.ForTeam(ctx, teamID).
		Model(&models.InviteModel{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Where("accepted_at IS NULL").
		Where("revoked_at IS NULL").
		Where("expires_at > NOW()").
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormInviteRepository implements InviteRepository
var _ identity.InviteRepository = (*GormInviteRepository)(nil)
