// Package team provides team scoping for GORM queries. Repositories
// route their team-bound reads and writes through TeamDB so the
// team_id predicate is applied in one place instead of being repeated
// in every query.
package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope applies team filtering to GORM queries
func Scope(teamID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("team_id = ?", teamID)
	}
}

// ScopeString applies team filtering using a string team ID
func ScopeString(teamID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("team_id = ?", teamID)
	}
}

// ScopeColumn applies team filtering on a qualified column, for
// queries that join other tables carrying their own team_id.
func ScopeColumn(column string, teamID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", teamID)
	}
}

// TeamDB wraps GORM DB with team scoping
type TeamDB struct {
	db *gorm.DB
}

// NewTeamDB creates a new TeamDB
func NewTeamDB(db *gorm.DB) *TeamDB {
	return &TeamDB{db: db}
}

// DB returns the underlying GORM DB without team scoping.
// Use with caution, this bypasses team isolation.
func (t *TeamDB) DB() *gorm.DB {
	return t.db
}

// ForTeam returns a context-carrying GORM DB scoped to a team. The
// predicate is applied immediately, so the returned DB can run more
// than one finisher. A nil team ID matches nothing.
func (t *TeamDB) ForTeam(ctx context.Context, teamID uuid.UUID) *gorm.DB {
	return Scope(teamID)(t.db.WithContext(ctx))
}
