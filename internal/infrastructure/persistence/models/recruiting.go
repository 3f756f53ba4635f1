package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/recruiting"
)

// RecruitModel is the persistence model for the Recruit domain entity.
type RecruitModel struct {
	TeamAggregateModel
	OwnerID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	FirstName      string            `gorm:"type:varchar(100);not null"`
	LastName       string            `gorm:"type:varchar(100);not null"`
	Email          string            `gorm:"type:varchar(200)"`
	Phone          string            `gorm:"type:varchar(50)"`
	Source         string            `gorm:"type:varchar(100)"`
	Stage          recruiting.Stage  `gorm:"type:varchar(30);not null;default:'prospect';index"`
	StageChangedAt time.Time         `gorm:"not null"`
	RejectReason   string            `gorm:"type:text"`
	Notes          string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RecruitModel) TableName() string {
	return "recruits"
}

// ToDomain converts the persistence model to a domain Recruit entity.
func (m *RecruitModel) ToDomain() *recruiting.Recruit {
	r := &recruiting.Recruit{
		OwnerID:        m.OwnerID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Source:         m.Source,
		Stage:          m.Stage,
		StageChangedAt: m.StageChangedAt,
		RejectReason:   m.RejectReason,
		Notes:          m.Notes,
	}
	m.PopulateTeamAggregateRoot(&r.TeamAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Recruit entity.
func (m *RecruitModel) FromDomain(r *recruiting.Recruit) {
	m.FromDomainTeamAggregateRoot(r.TeamAggregateRoot)
	m.OwnerID = r.OwnerID
	m.FirstName = r.FirstName
	m.LastName = r.LastName
	m.Email = r.Email
	m.Phone = r.Phone
	m.Source = r.Source
	m.Stage = r.Stage
	m.StageChangedAt = r.StageChangedAt
	m.RejectReason = r.RejectReason
	m.Notes = r.Notes
}

// RecruitModelFromDomain creates a new persistence model from a domain Recruit entity.
func RecruitModelFromDomain(r *recruiting.Recruit) *RecruitModel {
	m := &RecruitModel{}
	m.FromDomain(r)
	return m
}

// InterviewModel is the persistence model for the Interview domain entity.
type InterviewModel struct {
	TeamAggregateModel
	RecruitID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	InterviewerID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ScheduledAt   time.Time                   `gorm:"not null;index"`
	Location      string                      `gorm:"type:varchar(200)"`
	Outcome       recruiting.InterviewOutcome `gorm:"type:varchar(20);not null;default:'pending'"`
	Feedback      string                      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InterviewModel) TableName() string {
	return "interviews"
}

// ToDomain converts the persistence model to a domain Interview entity.
func (m *InterviewModel) ToDomain() *recruiting.Interview {
	i := &recruiting.Interview{
		RecruitID:     m.RecruitID,
		InterviewerID: m.InterviewerID,
		ScheduledAt:   m.ScheduledAt,
		Location:      m.Location,
		Outcome:       m.Outcome,
		Feedback:      m.Feedback,
	}
	m.PopulateTeamAggregateRoot(&i.TeamAggregateRoot)
	return i
}

// FromDomain populates the persistence model from a domain Interview entity.
func (m *InterviewModel) FromDomain(i *recruiting.Interview) {
	m.FromDomainTeamAggregateRoot(i.TeamAggregateRoot)
	m.RecruitID = i.RecruitID
	m.InterviewerID = i.InterviewerID
	m.ScheduledAt = i.ScheduledAt
	m.Location = i.Location
	m.Outcome = i.Outcome
	m.Feedback = i.Feedback
}

// InterviewModelFromDomain creates a new persistence model from a domain Interview entity.
func InterviewModelFromDomain(i *recruiting.Interview) *InterviewModel {
	m := &InterviewModel{}
	m.FromDomain(i)
	return m
}
