package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/activity"
	"github.com/shopspring/decimal"
)

// ActivityModel is the persistence model for the Activity domain entity.
// The unique index enforces one row per user per day; logging the
// same day twice updates in place.
type ActivityModel struct {
	TeamAggregateModel
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_activities_user_date,unique,priority:1"`
	ActivityDate       time.Time       `gorm:"type:date;not null;index:idx_activities_user_date,unique,priority:2;index:idx_activities_date"`
	Contacts           int             `gorm:"not null;default:0"`
	Appointments       int             `gorm:"not null;default:0"`
	Presentations      int             `gorm:"not null;default:0"`
	Referrals          int             `gorm:"not null;default:0"`
	Sales              int             `gorm:"not null;default:0"`
	Premium            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	RecruitingContacts int             `gorm:"not null;default:0"`
	Note               string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity entity.
func (m *ActivityModel) ToDomain() *activity.Activity {
	a := &activity.Activity{
		UserID:       m.UserID,
		ActivityDate: m.ActivityDate.UTC(),
		Metrics: activity.Metrics{
			Contacts:           m.Contacts,
			Appointments:       m.Appointments,
			Presentations:      m.Presentations,
			Referrals:          m.Referrals,
			Sales:              m.Sales,
			Premium:            m.Premium,
			RecruitingContacts: m.RecruitingContacts,
		},
		Note: m.Note,
	}
	m.PopulateTeamAggregateRoot(&a.TeamAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Activity entity.
func (m *ActivityModel) FromDomain(a *activity.Activity) {
	m.FromDomainTeamAggregateRoot(a.TeamAggregateRoot)
	m.UserID = a.UserID
	m.ActivityDate = a.ActivityDate
	m.Contacts = a.Metrics.Contacts
	m.Appointments = a.Metrics.Appointments
	m.Presentations = a.Metrics.Presentations
	m.Referrals = a.Metrics.Referrals
	m.Sales = a.Metrics.Sales
	m.Premium = a.Metrics.Premium
	m.RecruitingContacts = a.Metrics.RecruitingContacts
	m.Note = a.Note
}

// ActivityModelFromDomain creates a new persistence model from a domain Activity entity.
func ActivityModelFromDomain(a *activity.Activity) *ActivityModel {
	m := &ActivityModel{}
	m.FromDomain(a)
	return m
}
