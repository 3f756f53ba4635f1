package recruiting

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

const (
	AggregateTypeRecruit   = "Recruit"
	AggregateTypeInterview = "Interview"
)

const (
	EventTypeRecruitCreated      = "recruiting.recruit.created"
	EventTypeRecruitStageChanged = "recruiting.recruit.stage_changed"
	EventTypeRecruitHired        = "recruiting.recruit.hired"
	EventTypeInterviewScheduled  = "recruiting.interview.scheduled"
)

// RecruitCreatedEvent fires when a prospect enters the pipeline.
type RecruitCreatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}

// NewRecruitCreatedEvent creates a recruit created event
func NewRecruitCreatedEvent(r *Recruit) *RecruitCreatedEvent {
	return &RecruitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecruitCreated, AggregateTypeRecruit, r.ID, r.TeamID),
		OwnerID:         r.OwnerID,
		Name:            r.FullName(),
	}
}

// RecruitStageChangedEvent fires on every pipeline move.
type RecruitStageChangedEvent struct {
	shared.BaseDomainEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	FromStage Stage     `json:"from_stage"`
	ToStage   Stage     `json:"to_stage"`
}

// NewRecruitStageChangedEvent creates a stage changed event
func NewRecruitStageChangedEvent(r *Recruit, from, to Stage) *RecruitStageChangedEvent {
	return &RecruitStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecruitStageChanged, AggregateTypeRecruit, r.ID, r.TeamID),
		OwnerID:         r.OwnerID,
		FromStage:       from,
		ToStage:         to,
	}
}

// RecruitHiredEvent fires when a recruit is hired. A handler issues an
// account invite for the recruit's email when one is on file.
type RecruitHiredEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Email   string    `json:"email,omitempty"`
	Name    string    `json:"name"`
}

// NewRecruitHiredEvent creates a recruit hired event
func NewRecruitHiredEvent(r *Recruit) *RecruitHiredEvent {
	return &RecruitHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecruitHired, AggregateTypeRecruit, r.ID, r.TeamID),
		OwnerID:         r.OwnerID,
		Email:           r.Email,
		Name:            r.FullName(),
	}
}

// InterviewScheduledEvent fires when an interview is booked.
type InterviewScheduledEvent struct {
	shared.BaseDomainEvent
	RecruitID     uuid.UUID `json:"recruit_id"`
	InterviewerID uuid.UUID `json:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// NewInterviewScheduledEvent creates an interview scheduled event
func NewInterviewScheduledEvent(i *Interview) *InterviewScheduledEvent {
	return &InterviewScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterviewScheduled, AggregateTypeInterview, i.ID, i.TeamID),
		RecruitID:       i.RecruitID,
		InterviewerID:   i.InterviewerID,
		ScheduledAt:     i.ScheduledAt,
	}
}
