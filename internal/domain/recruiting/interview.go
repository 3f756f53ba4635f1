package recruiting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

// InterviewOutcome is the recorded result of a scheduled interview.
type InterviewOutcome string

const (
	OutcomePending   InterviewOutcome = "pending"
	OutcomeCompleted InterviewOutcome = "completed"
	OutcomeNoShow    InterviewOutcome = "no_show"
	OutcomeCanceled  InterviewOutcome = "canceled"
)

// Interview is a scheduled meeting with a recruit. The interviewer is
// a team member; scheduling one moves the recruit's pipeline stage.
type Interview struct {
	shared.TeamAggregateRoot
	RecruitID     uuid.UUID
	InterviewerID uuid.UUID
	ScheduledAt   time.Time
	Location      string
	Outcome       InterviewOutcome
	Feedback      string
}

// NewInterview schedules an interview. Past times are rejected; the
// application layer advances the recruit's stage alongside.
func NewInterview(teamID, recruitID, interviewerID uuid.UUID, scheduledAt time.Time, location string) (*Interview, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Interview must belong to a team")
	}
	if recruitID == uuid.Nil || interviewerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Interview needs a recruit and an interviewer")
	}
	if scheduledAt.Before(time.Now()) {
		return nil, shared.NewDomainError("INVALID_TIME", "Interview cannot be scheduled in the past")
	}
	if len(location) > 200 {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 200 characters")
	}

	iv := &Interview{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		RecruitID:         recruitID,
		InterviewerID:     interviewerID,
		ScheduledAt:       scheduledAt,
		Location:          strings.TrimSpace(location),
		Outcome:           OutcomePending,
	}
	iv.AddDomainEvent(NewInterviewScheduledEvent(iv))
	return iv, nil
}

// Reschedule moves a pending interview to a new future time.
func (i *Interview) Reschedule(scheduledAt time.Time) error {
	if i.Outcome != OutcomePending {
		return shared.NewDomainError("INTERVIEW_CLOSED", "Only pending interviews can be rescheduled")
	}
	if scheduledAt.Before(time.Now()) {
		return shared.NewDomainError("INVALID_TIME", "Interview cannot be scheduled in the past")
	}
	i.ScheduledAt = scheduledAt
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Complete records the interview as held, with optional feedback.
func (i *Interview) Complete(feedback string) error {
	if i.Outcome != OutcomePending {
		return shared.NewDomainError("INTERVIEW_CLOSED", "Interview already has an outcome")
	}
	if len(feedback) > 2000 {
		return shared.NewDomainError("INVALID_FEEDBACK", "Feedback cannot exceed 2000 characters")
	}
	i.Outcome = OutcomeCompleted
	i.Feedback = feedback
	i.Touch()
	i.IncrementVersion()
	return nil
}

// NoShow records that the recruit did not attend.
func (i *Interview) NoShow() error {
	if i.Outcome != OutcomePending {
		return shared.NewDomainError("INTERVIEW_CLOSED", "Interview already has an outcome")
	}
	i.Outcome = OutcomeNoShow
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Cancel calls the interview off before it happens.
func (i *Interview) Cancel() error {
	if i.Outcome != OutcomePending {
		return shared.NewDomainError("INTERVIEW_CLOSED", "Interview already has an outcome")
	}
	i.Outcome = OutcomeCanceled
	i.Touch()
	i.IncrementVersion()
	return nil
}
