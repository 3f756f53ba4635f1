package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/hierarchy"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"gorm.io/gorm"
)

// GormEdgeRepository implements hierarchy.EdgeRepository by reading the
// (id, manager_id) pairs off the users table. The reporting tree has no
// table of its own.
type GormEdgeRepository struct {
	db *team.TeamDB
}

// NewGormEdgeRepository creates a new GormEdgeRepository
func NewGormEdgeRepository(db *gorm.DB) *GormEdgeRepository {
	return &GormEdgeRepository{db: team.NewTeamDB(db)}
}

// FindTeamEdges returns every manager edge in the team. Users without a
// manager (tree roots) are skipped.
func (r *GormEdgeRepository) FindTeamEdges(ctx context.Context, teamID uuid.UUID) ([]hierarchy.Edge, error) {
	type edgeRow struct {
		ID        uuid.UUID  `gorm:"column:id"`
		ManagerID *uuid.UUID `gorm:"column:manager_id"`
	}

	var rows []edgeRow
	if err := r.db.ForTeam(ctx, teamID).
		Model(&models.UserModel{}).
		Select("id, manager_id").
		Where("manager_id IS NOT NULL").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	edges := make([]hierarchy.Edge, 0, len(rows))
	for _, row := range rows {
		if row.ManagerID == nil {
			continue
		}
		edges = append(edges, hierarchy.Edge{
			UserID:    row.ID,
			ManagerID: *row.ManagerID,
		})
	}

	return edges, nil
}

// Ensure GormEdgeRepository implements hierarchy.EdgeRepository
var _ hierarchy.EdgeRepository = (*GormEdgeRepository)(nil)
