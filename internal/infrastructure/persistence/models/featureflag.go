package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// logger for model conversion errors (silent failures are logged for debugging)
var modelLogger = zap.L().Named("featureflag.models")

// FlagModel is the persistence model for the per-team feature Flag.
// Role overrides are stored as a JSON object keyed by role name.
type FlagModel struct {
	AggregateModel
	TeamID            uuid.UUID           `gorm:"type:uuid;not null;index:idx_flags_team_feature,unique,priority:1"`
	CreatedBy         *uuid.UUID          `gorm:"type:uuid;index"`
	Feature           featureflag.Feature `gorm:"type:varchar(50);not null;index:idx_flags_team_feature,unique,priority:2"`
	Enabled           bool                `gorm:"not null;default:true"`
	RoleOverridesJSON string              `gorm:"column:role_overrides;type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (FlagModel) TableName() string {
	return "feature_flags"
}

// ToDomain converts the persistence model to a domain Flag entity.
func (m *FlagModel) ToDomain() *featureflag.Flag {
	flag := &featureflag.Flag{
		TeamAggregateRoot: shared.TeamAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TeamID:    m.TeamID,
			CreatedBy: m.CreatedBy,
		},
		Feature:       m.Feature,
		Enabled:       m.Enabled,
		RoleOverrides: make(map[identity.Role]bool),
	}

	if m.RoleOverridesJSON != "" && m.RoleOverridesJSON != "{}" {
		var overrides map[string]bool
		if err := json.Unmarshal([]byte(m.RoleOverridesJSON), &overrides); err != nil {
			modelLogger.Warn("failed to parse role_overrides JSON",
				zap.String("feature", string(m.Feature)),
				zap.String("raw_json", m.RoleOverridesJSON),
				zap.Error(err))
		} else {
			for name, enabled := range overrides {
				role, err := identity.ParseRole(name)
				if err != nil {
					continue
				}
				flag.RoleOverrides[role] = enabled
			}
		}
	}

	return flag
}

// FromDomain populates the persistence model from a domain Flag entity.
func (m *FlagModel) FromDomain(f *featureflag.Flag) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.TeamID = f.TeamID
	m.CreatedBy = f.CreatedBy
	m.Feature = f.Feature
	m.Enabled = f.Enabled

	if len(f.RoleOverrides) > 0 {
		overrides := make(map[string]bool, len(f.RoleOverrides))
		for role, enabled := range f.RoleOverrides {
			overrides[string(role)] = enabled
		}
		if jsonBytes, err := json.Marshal(overrides); err == nil {
			m.RoleOverridesJSON = string(jsonBytes)
		} else {
			m.RoleOverridesJSON = "{}"
		}
	} else {
		m.RoleOverridesJSON = "{}"
	}
}

// FlagModelFromDomain creates a new persistence model from a domain Flag entity.
func FlagModelFromDomain(f *featureflag.Flag) *FlagModel {
	m := &FlagModel{}
	m.FromDomain(f)
	return m
}
