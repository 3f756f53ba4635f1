package featureflag

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// Flag is one team's setting for one feature. RoleOverrides lets a team
// keep a feature on but hide it from specific roles (or the reverse);
// an override always wins over the team-level Enabled bit.
type Flag struct {
	shared.TeamAggregateRoot
	Feature       Feature
	Enabled       bool
	RoleOverrides map[identity.Role]bool
}

// NewFlag creates a team-level flag for a known feature.
func NewFlag(teamID uuid.UUID, feature Feature, enabled bool) (*Flag, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Flag must belong to a team")
	}
	if !feature.IsValid() {
		return nil, shared.NewDomainError("UNKNOWN_FEATURE", "Unknown feature: "+string(feature))
	}
	return &Flag{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		Feature:           feature,
		Enabled:           enabled,
		RoleOverrides:     make(map[identity.Role]bool),
	}, nil
}

// SetEnabled flips the team-level bit.
func (f *Flag) SetEnabled(enabled bool) {
	f.Enabled = enabled
	f.Touch()
	f.IncrementVersion()
}

// SetRoleOverride pins the feature on or off for one role.
func (f *Flag) SetRoleOverride(role identity.Role, enabled bool) error {
	if !role.IsValid() || role == identity.RoleSuperAdmin {
		return shared.NewDomainError("INVALID_ROLE", "Overrides apply to team roles only")
	}
	if f.RoleOverrides == nil {
		f.RoleOverrides = make(map[identity.Role]bool)
	}
	f.RoleOverrides[role] = enabled
	f.Touch()
	f.IncrementVersion()
	return nil
}

// ClearRoleOverride removes a role's pin, restoring the team-level bit.
func (f *Flag) ClearRoleOverride(role identity.Role) {
	delete(f.RoleOverrides, role)
	f.Touch()
	f.IncrementVersion()
}

// EnabledFor resolves the flag for a role. Super admins always see
// every feature.
func (f *Flag) EnabledFor(role identity.Role) bool {
	if role == identity.RoleSuperAdmin {
		return true
	}
	if v, ok := f.RoleOverrides[role]; ok {
		return v
	}
	return f.Enabled
}

// Evaluate resolves a feature for a role given a team's configured
// flags. Features the team never configured fall back to the registry
// default.
func Evaluate(flags []*Flag, feature Feature, role identity.Role) bool {
	if role == identity.RoleSuperAdmin {
		return true
	}
	for _, f := range flags {
		if f.Feature == feature {
			return f.EnabledFor(role)
		}
	}
	return feature.DefaultEnabled()
}

// Repository persists per-team flags.
type Repository interface {
	Save(ctx context.Context, flag *Flag) error
	FindByTeam(ctx context.Context, teamID uuid.UUID) ([]*Flag, error)
	FindByTeamAndFeature(ctx context.Context, teamID uuid.UUID, feature Feature) (*Flag, error)
	Delete(ctx context.Context, teamID uuid.UUID, feature Feature) error
}
