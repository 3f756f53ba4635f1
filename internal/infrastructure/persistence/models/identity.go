package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UserModel is the persistence model for the User domain entity.
// Super admins carry the nil UUID as team_id, so the column allows it.
type UserModel struct {
	AggregateModel
	TeamID             uuid.UUID           `gorm:"type:uuid;not null;index:idx_users_team;index:idx_users_team_username,unique,priority:1"`
	CreatedBy          *uuid.UUID          `gorm:"type:uuid;index"`
	Username           string              `gorm:"type:varchar(100);not null;index:idx_users_team_username,unique,priority:2"`
	Email              string              `gorm:"type:varchar(200)"`
	Phone              string              `gorm:"type:varchar(50)"`
	PasswordHash       string              `gorm:"type:varchar(255);not null"`
	DisplayName        string              `gorm:"type:varchar(200)"`
	Role               identity.Role       `gorm:"type:varchar(20);not null;default:'agent';index"`
	ManagerID          *uuid.UUID          `gorm:"type:uuid;index"`
	Status             identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	HiredAt            time.Time           `gorm:"not null;index"`
	LastLoginAt        *time.Time          `gorm:"index"`
	LastLoginIP        string              `gorm:"type:varchar(45)"`
	FailedAttempts     int                 `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool   `gorm:"not null;default:false"`
	Notes              string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
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
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		DisplayName:        m.DisplayName,
		Role:               m.Role,
		ManagerID:          m.ManagerID,
		Status:             m.Status,
		HiredAt:            m.HiredAt,
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.TeamID = u.TeamID
	m.CreatedBy = u.CreatedBy
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.ManagerID = u.ManagerID
	m.Status = u.Status
	m.HiredAt = u.HiredAt
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.MustChangePassword = u.MustChangePassword
	m.Notes = u.Notes
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// TeamModel is the persistence model for the Team domain entity.
type TeamModel struct {
	AggregateModel
	Code   string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string              `gorm:"type:varchar(200);not null"`
	Status identity.TeamStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// Embedded config fields
	ConfigTimezone          string          `gorm:"column:config_timezone;type:varchar(50);default:'America/Chicago'"`
	ConfigLocale            string          `gorm:"column:config_locale;type:varchar(20);default:'en-US'"`
	ConfigWeeklyPremiumGoal decimal.Decimal `gorm:"column:config_weekly_premium_goal;type:numeric(14,2);default:0"`
	ConfigWeeklySalesGoal   int             `gorm:"column:config_weekly_sales_goal;not null;default:0"`
	ConfigNPAWindowDays     int             `gorm:"column:config_npa_window_days;not null;default:90"`
	ConfigMaxUsers          int             `gorm:"column:config_max_users;not null;default:100"`
	Notes                   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team entity.
func (m *TeamModel) ToDomain() *identity.Team {
	return &identity.Team{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:   m.Code,
		Name:   m.Name,
		Status: m.Status,
		Config: identity.TeamConfig{
			Timezone:          m.ConfigTimezone,
			Locale:            m.ConfigLocale,
			WeeklyPremiumGoal: m.ConfigWeeklyPremiumGoal,
			WeeklySalesGoal:   m.ConfigWeeklySalesGoal,
			NPAWindowDays:     m.ConfigNPAWindowDays,
			MaxUsers:          m.ConfigMaxUsers,
		},
		Notes: m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Team entity.
func (m *TeamModel) FromDomain(t *identity.Team) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.ConfigTimezone = t.Config.Timezone
	m.ConfigLocale = t.Config.Locale
	m.ConfigWeeklyPremiumGoal = t.Config.WeeklyPremiumGoal
	m.ConfigWeeklySalesGoal = t.Config.WeeklySalesGoal
	m.ConfigNPAWindowDays = t.Config.NPAWindowDays
	m.ConfigMaxUsers = t.Config.MaxUsers
	m.Notes = t.Notes
}

// TeamModelFromDomain creates a new persistence model from a domain Team entity.
func TeamModelFromDomain(t *identity.Team) *TeamModel {
	m := &TeamModel{}
	m.FromDomain(t)
	return m
}

// InviteModel is the persistence model for the Invite domain entity.
type InviteModel struct {
	TeamAggregateModel
	Email      string        `gorm:"type:varchar(200);not null;index"`
	Role       identity.Role `gorm:"type:varchar(20);not null"`
	ManagerID  *uuid.UUID    `gorm:"type:uuid;index"`
	Code       string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt  time.Time     `gorm:"not null;index"`
	AcceptedAt *time.Time
	AcceptedBy *uuid.UUID `gorm:"type:uuid"`
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (InviteModel) TableName() string {
	return "invites"
}

// ToDomain converts the persistence model to a domain Invite entity.
func (m *InviteModel) ToDomain() *identity.Invite {
	invite := &identity.Invite{
		Email:      m.Email,
		Role:       m.Role,
		ManagerID:  m.ManagerID,
		Code:       m.Code,
		ExpiresAt:  m.ExpiresAt,
		AcceptedAt: m.AcceptedAt,
		AcceptedBy: m.AcceptedBy,
		RevokedAt:  m.RevokedAt,
	}
	m.PopulateTeamAggregateRoot(&invite.TeamAggregateRoot)
	return invite
}

// FromDomain populates the persistence model from a domain Invite entity.
func (m *InviteModel) FromDomain(i *identity.Invite) {
	m.FromDomainTeamAggregateRoot(i.TeamAggregateRoot)
	m.Email = i.Email
	m.Role = i.Role
	m.ManagerID = i.ManagerID
	m.Code = i.Code
	m.ExpiresAt = i.ExpiresAt
	m.AcceptedAt = i.AcceptedAt
	m.AcceptedBy = i.AcceptedBy
	m.RevokedAt = i.RevokedAt
}

// InviteModelFromDomain creates a new persistence model from a domain Invite entity.
func InviteModelFromDomain(i *identity.Invite) *InviteModel {
	m := &InviteModel{}
	m.FromDomain(i)
	return m
}
