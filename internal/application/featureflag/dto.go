package featureflag

import (
	"github.com/google/uuid"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
)

// SetFlagInput sets a team's default for one feature. TeamID is only
// honored for super admins; everyone else operates on their own team.
type SetFlagInput struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Enabled bool       `json:"enabled"`
}

// RoleOverrideInput pins a feature on or off for one role within a team.
type RoleOverrideInput struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Role    string     `json:"role" binding:"required"`
	Enabled bool       `json:"enabled"`
}

// ClearOverrideInput removes a role's pin, restoring the team default.
type ClearOverrideInput struct {
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Feature string     `json:"feature" binding:"required"`
	Role    string     `json:"role" binding:"required"`
}

// FlagDTO is one feature's state for a team: the stored setting (when
// configured) plus the resolved value per team role.
type FlagDTO struct {
	Feature       string          `json:"feature"`
	Enabled       bool            `json:"enabled"`
	Configured    bool            `json:"configured"`
	RoleOverrides map[string]bool `json:"role_overrides,omitempty"`
	Effective     map[string]bool `json:"effective"`
}

// toFlagDTO renders a feature against a team's configured flags. flag
// is nil when the team never configured the feature.
func toFlagDTO(feature featureflag.Feature, flag *featureflag.Flag, all []*featureflag.Flag) FlagDTO {
	dto := FlagDTO{
		Feature:   feature.String(),
		Enabled:   feature.DefaultEnabled(),
		Effective: make(map[string]bool, len(identity.AllRoles())-1),
	}
	if flag != nil {
		dto.Enabled = flag.Enabled
		dto.Configured = true
		if len(flag.RoleOverrides) > 0 {
			dto.RoleOverrides = make(map[string]bool, len(flag.RoleOverrides))
			for role, v := range flag.RoleOverrides {
				dto.RoleOverrides[role.String()] = v
			}
		}
	}
	for _, role := range identity.AllRoles() {
		if role == identity.RoleSuperAdmin {
			continue
		}
		dto.Effective[role.String()] = featureflag.Evaluate(all, feature, role)
	}
	return dto
}
