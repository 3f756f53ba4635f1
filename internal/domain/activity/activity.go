package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Metrics are the daily production numbers an agent reports. All counts
// must be non-negative; premium is a money amount.
type Metrics struct {
	Contacts           int
	Appointments       int
	Presentations      int
	Referrals          int
	Sales              int
	Premium            decimal.Decimal
	RecruitingContacts int
}

// Validate rejects negative values in any metric.
func (m Metrics) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"contacts", m.Contacts},
		{"appointments", m.Appointments},
		{"presentations", m.Presentations},
		{"referrals", m.Referrals},
		{"sales", m.Sales},
		{"recruiting_contacts", m.RecruitingContacts},
	}
	for _, c := range counts {
		if c.value < 0 {
			return shared.NewDomainError("NEGATIVE_METRIC", "Metric "+c.name+" cannot be negative")
		}
	}
	if m.Premium.IsNegative() {
		return shared.NewDomainError("NEGATIVE_METRIC", "Metric premium cannot be negative")
	}
	return nil
}

// Add returns the element-wise sum of two metric sets.
func (m Metrics) Add(other Metrics) Metrics {
	return Metrics{
		Contacts:           m.Contacts + other.Contacts,
		Appointments:       m.Appointments + other.Appointments,
		Presentations:      m.Presentations + other.Presentations,
		Referrals:          m.Referrals + other.Referrals,
		Sales:              m.Sales + other.Sales,
		Premium:            m.Premium.Add(other.Premium),
		RecruitingContacts: m.RecruitingContacts + other.RecruitingContacts,
	}
}

// IsZero reports whether every metric is zero.
func (m Metrics) IsZero() bool {
	return m.Contacts == 0 && m.Appointments == 0 && m.Presentations == 0 &&
		m.Referrals == 0 && m.Sales == 0 && m.RecruitingContacts == 0 &&
		m.Premium.IsZero()
}

// Activity is one user's reported production for one calendar day.
// There is at most one record per (team, user, date); logging the same
// day again replaces the metrics rather than appending a second row.
type Activity struct {
	shared.TeamAggregateRoot
	UserID       uuid.UUID
	ActivityDate time.Time
	Metrics      Metrics
	Note         string
}

const maxNoteLength = 2000

// NewActivity creates an activity record for a calendar day. The date
// is interpreted in the team's timezone: days after "today" there are
// rejected, and the stored date is normalized to midnight UTC.
func NewActivity(teamID, userID uuid.UUID, date time.Time, metrics Metrics, loc *time.Location) (*Activity, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Activity must belong to a team")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("USER_REQUIRED", "Activity must belong to a user")
	}
	day, err := NormalizeDate(date, loc)
	if err != nil {
		return nil, err
	}
	if err := metrics.Validate(); err != nil {
		return nil, err
	}

	a := &Activity{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		UserID:            userID,
		ActivityDate:      day,
		Metrics:           metrics,
	}
	a.AddDomainEvent(NewActivityLoggedEvent(a))
	return a, nil
}

// UpdateMetrics replaces the day's metrics.
func (a *Activity) UpdateMetrics(metrics Metrics) error {
	if err := metrics.Validate(); err != nil {
		return err
	}
	a.Metrics = metrics
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewActivityUpdatedEvent(a))
	return nil
}

// SetNote attaches a free-form note to the day's record.
func (a *Activity) SetNote(note string) error {
	if len(note) > maxNoteLength {
		return shared.NewDomainError("NOTE_TOO_LONG", "Note cannot exceed 2000 characters")
	}
	a.Note = note
	a.Touch()
	a.IncrementVersion()
	return nil
}

// NormalizeDate truncates t to its calendar day in loc and returns the
// day as midnight UTC, the canonical storage form. Future days in loc
// are rejected.
func NormalizeDate(t time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return time.Time{}, shared.NewDomainError("FUTURE_DATE", "Activity date cannot be in the future")
	}
	return day, nil
}
