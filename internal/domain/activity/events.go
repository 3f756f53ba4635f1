package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

const AggregateTypeActivity = "Activity"

const (
	EventTypeActivityLogged  = "activity.logged"
	EventTypeActivityUpdated = "activity.updated"
)

// ActivityLoggedEvent fires when a user first reports a day's numbers.
type ActivityLoggedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	ActivityDate time.Time `json:"activity_date"`
	Sales        int       `json:"sales"`
}

// NewActivityLoggedEvent creates an activity logged event
func NewActivityLoggedEvent(a *Activity) *ActivityLoggedEvent {
	return &ActivityLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityLogged, AggregateTypeActivity, a.ID, a.TeamID),
		UserID:          a.UserID,
		ActivityDate:    a.ActivityDate,
		Sales:           a.Metrics.Sales,
	}
}

// ActivityUpdatedEvent fires when an existing day's numbers are replaced.
type ActivityUpdatedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	ActivityDate time.Time `json:"activity_date"`
}

// NewActivityUpdatedEvent creates an activity updated event
func NewActivityUpdatedEvent(a *Activity) *ActivityUpdatedEvent {
	return &ActivityUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityUpdated, AggregateTypeActivity, a.ID, a.TeamID),
		UserID:          a.UserID,
		ActivityDate:    a.ActivityDate,
	}
}
