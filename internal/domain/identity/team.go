package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TeamStatus represents the lifecycle status of a team
type TeamStatus string

const (
	TeamStatusActive      TeamStatus = "active"
	TeamStatusSuspended   TeamStatus = "suspended"
	TeamStatusDeactivated TeamStatus = "deactivated"
)

// DefaultNPAWindowDays is the default window, in days since hire, during
// which a producer counts as "new" for the NPA tracker.
const DefaultNPAWindowDays = 90

var teamCodeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{1,48}[a-z0-9]$`)

// TeamConfig holds per-team settings that influence reporting
type TeamConfig struct {
	Timezone          string
	Locale            string
	WeeklyPremiumGoal decimal.Decimal
	WeeklySalesGoal   int
	NPAWindowDays     int
	MaxUsers          int
}

// DefaultTeamConfig returns the configuration applied to new teams
func DefaultTeamConfig() TeamConfig {
	return TeamConfig{
		Timezone:          "America/Chicago",
		Locale:            "en-US",
		WeeklyPremiumGoal: decimal.Zero,
		WeeklySalesGoal:   0,
		NPAWindowDays:     DefaultNPAWindowDays,
		MaxUsers:          100,
	}
}

// Team is the tenant boundary. All business data carries the team's ID
// and must not cross it.
type Team struct {
	shared.BaseAggregateRoot
	Code   string
	Name   string
	Status TeamStatus
	Config TeamConfig
	Notes  string
}

// NewTeam creates a new active team with default configuration
func NewTeam(code, name string) (*Team, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !teamCodeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TEAM_CODE",
			"Team code must be 3-50 lowercase letters, numbers, or hyphens")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TEAM_NAME", "Team name must be 1-200 characters")
	}

	team := &Team{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TeamStatusActive,
		Config:            DefaultTeamConfig(),
	}

	team.AddDomainEvent(NewTeamCreatedEvent(team))

	return team, nil
}

// Rename changes the team's display name
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_TEAM_NAME", "Team name must be 1-200 characters")
	}
	t.Name = name
	t.Touch()
	t.IncrementVersion()
	return nil
}

// UpdateConfig replaces the team configuration after validation
func (t *Team) UpdateConfig(cfg TeamConfig) error {
	if cfg.Timezone == "" {
		return shared.NewDomainError("INVALID_TIMEZONE", "Timezone cannot be empty")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+cfg.Timezone)
	}
	if cfg.NPAWindowDays <= 0 {
		cfg.NPAWindowDays = DefaultNPAWindowDays
	}
	if cfg.WeeklyPremiumGoal.IsNegative() {
		return shared.NewDomainError("INVALID_GOAL", "Weekly premium goal cannot be negative")
	}
	if cfg.WeeklySalesGoal < 0 {
		return shared.NewDomainError("INVALID_GOAL", "Weekly sales goal cannot be negative")
	}
	if cfg.MaxUsers < 1 {
		return shared.NewDomainError("INVALID_MAX_USERS", "Max users must be at least 1")
	}
	t.Config = cfg
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Location resolves the team's timezone, falling back to UTC
func (t *Team) Location() *time.Location {
	loc, err := time.LoadLocation(t.Config.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Activate transitions the team to active
func (t *Team) Activate() error {
	if t.Status == TeamStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Team is already active")
	}
	t.Status = TeamStatusActive
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Suspend suspends the team; members can no longer authenticate
func (t *Team) Suspend() error {
	if t.Status != TeamStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active teams can be suspended")
	}
	t.Status = TeamStatusSuspended
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Deactivate permanently deactivates the team
func (t *Team) Deactivate() error {
	if t.Status == TeamStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Team is already deactivated")
	}
	t.Status = TeamStatusDeactivated
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsActive reports whether the team is active
func (t *Team) IsActive() bool {
	return t.Status == TeamStatusActive
}
