package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salespulse/backend/internal/domain/activity"
)

// MetricsInput carries a full set of daily production numbers
type MetricsInput struct {
	Contacts           int             `json:"contacts"`
	Appointments       int             `json:"appointments"`
	Presentations      int             `json:"presentations"`
	Referrals          int             `json:"referrals"`
	Sales              int             `json:"sales"`
	Premium            decimal.Decimal `json:"premium"`
	RecruitingContacts int             `json:"recruiting_contacts"`
}

func (m MetricsInput) toMetrics() activity.Metrics {
	return activity.Metrics{
		Contacts:           m.Contacts,
		Appointments:       m.Appointments,
		Presentations:      m.Presentations,
		Referrals:          m.Referrals,
		Sales:              m.Sales,
		Premium:            m.Premium,
		RecruitingContacts: m.RecruitingContacts,
	}
}

// LogInput contains the input for logging a day's activity. UserID is
// the record owner; nil means the actor logs for themselves.
type LogInput struct {
	UserID  *uuid.UUID   `json:"user_id,omitempty"`
	Date    time.Time    `json:"date"`
	Metrics MetricsInput `json:"metrics"`
	Note    string       `json:"note,omitempty"`
}

// PatchInput contains a partial metrics update. Nil fields keep their
// current value.
type PatchInput struct {
	ID                 uuid.UUID        `json:"-"`
	Contacts           *int             `json:"contacts,omitempty"`
	Appointments       *int             `json:"appointments,omitempty"`
	Presentations      *int             `json:"presentations,omitempty"`
	Referrals          *int             `json:"referrals,omitempty"`
	Sales              *int             `json:"sales,omitempty"`
	Premium            *decimal.Decimal `json:"premium,omitempty"`
	RecruitingContacts *int             `json:"recruiting_contacts,omitempty"`
	Note               *string          `json:"note,omitempty"`
}

// ListInput narrows an activity listing. UserID restricts to one
// record owner; From/To bound the date range.
type ListInput struct {
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	From     time.Time  `json:"from"`
	To       time.Time  `json:"to"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ActivityDTO represents one user's production for one day
type ActivityDTO struct {
	ID                 uuid.UUID       `json:"id"`
	TeamID             uuid.UUID       `json:"team_id"`
	UserID             uuid.UUID       `json:"user_id"`
	ActivityDate       time.Time       `json:"activity_date"`
	Contacts           int             `json:"contacts"`
	Appointments       int             `json:"appointments"`
	Presentations      int             `json:"presentations"`
	Referrals          int             `json:"referrals"`
	Sales              int             `json:"sales"`
	Premium            decimal.Decimal `json:"premium"`
	RecruitingContacts int             `json:"recruiting_contacts"`
	Note               string          `json:"note,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ListResult represents a paginated activity list
type ListResult struct {
	Activities []ActivityDTO `json:"activities"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func toActivityDTO(a *activity.Activity) *ActivityDTO {
	return &ActivityDTO{
		ID:                 a.ID,
		TeamID:             a.TeamID,
		UserID:             a.UserID,
		ActivityDate:       a.ActivityDate,
		Contacts:           a.Metrics.Contacts,
		Appointments:       a.Metrics.Appointments,
		Presentations:      a.Metrics.Presentations,
		Referrals:          a.Metrics.Referrals,
		Sales:              a.Metrics.Sales,
		Premium:            a.Metrics.Premium,
		RecruitingContacts: a.Metrics.RecruitingContacts,
		Note:               a.Note,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return int(pages)
}
