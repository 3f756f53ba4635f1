package recruiting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
)

// InterviewService schedules interviews and records their outcomes.
// Scheduling moves the recruit into the interview_scheduled stage, and
// a completed interview moves them to interviewed, so interviews and
// the pipeline stay in step without the client orchestrating both.
type InterviewService struct {
	interviewRepo recruiting.InterviewRepository
	recruits      *RecruitService
	eventBus      shared.EventPublisher
	logger        *zap.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	interviewRepo recruiting.InterviewRepository,
	recruits *RecruitService,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		recruits:      recruits,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// Schedule books an interview and advances the recruit's pipeline
// stage when it is still behind interview_scheduled.
func (s *InterviewService) Schedule(ctx context.Context, actor *identity.User, input ScheduleInterviewInput) (*InterviewDTO, error) {
	recruit, err := s.recruits.findWritable(ctx, actor, input.RecruitID)
	if err != nil {
		return nil, err
	}
	if recruit.Stage.IsTerminal() {
		return nil, shared.NewDomainError("PIPELINE_CLOSED", "Recruit pipeline is already closed")
	}

	interviewer := actor
	if input.InterviewerID != nil && *input.InterviewerID != actor.ID {
		interviewer, err = s.recruits.readableUser(ctx, actor, *input.InterviewerID)
		if err != nil {
			return nil, err
		}
		if interviewer.TeamID != recruit.TeamID {
			return nil, shared.ErrTeamMismatch
		}
	}

	interview, err := recruiting.NewInterview(recruit.TeamID, recruit.ID, interviewer.ID, input.ScheduledAt, input.Location)
	if err != nil {
		return nil, err
	}

	if err := s.interviewRepo.Create(ctx, interview); err != nil {
		s.logger.Error("Failed to create interview", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to schedule interview")
	}

	s.advanceRecruit(ctx, recruit, recruiting.StageInterviewScheduled)
	s.publishEvents(ctx, interview)

	s.logger.Info("Interview scheduled",
		zap.String("interview_id", interview.ID.String()),
		zap.String("recruit_id", recruit.ID.String()),
		zap.Time("scheduled_at", interview.ScheduledAt))

	return toInterviewDTO(interview), nil
}

// Reschedule moves a pending interview to a new time.
func (s *InterviewService) Reschedule(ctx context.Context, actor *identity.User, id uuid.UUID, scheduledAt time.Time) (*InterviewDTO, error) {
	interview, _, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := interview.Reschedule(scheduledAt); err != nil {
		return nil, err
	}
	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		s.logger.Error("Failed to reschedule interview", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reschedule interview")
	}
	return toInterviewDTO(interview), nil
}

// RecordOutcome closes a pending interview. A completed interview
// moves the recruit to the interviewed stage; no-shows and
// cancellations leave the pipeline where it is.
func (s *InterviewService) RecordOutcome(ctx context.Context, actor *identity.User, id uuid.UUID, input OutcomeInput) (*InterviewDTO, error) {
	interview, recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	switch recruiting.InterviewOutcome(input.Outcome) {
	case recruiting.OutcomeCompleted:
		if err := interview.Complete(input.Feedback); err != nil {
			return nil, err
		}
	case recruiting.OutcomeNoShow:
		if err := interview.NoShow(); err != nil {
			return nil, err
		}
	case recruiting.OutcomeCanceled:
		if err := interview.Cancel(); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("INVALID_OUTCOME", "Outcome must be completed, no_show or canceled")
	}

	if err := s.interviewRepo.Update(ctx, interview); err != nil {
		s.logger.Error("Failed to record interview outcome", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record outcome")
	}

	if interview.Outcome == recruiting.OutcomeCompleted {
		s.advanceRecruit(ctx, recruit, recruiting.StageInterviewed)
	}

	s.logger.Info("Interview outcome recorded",
		zap.String("interview_id", interview.ID.String()),
		zap.String("outcome", string(interview.Outcome)))

	return toInterviewDTO(interview), nil
}

// ListByRecruit returns a recruit's interviews.
func (s *InterviewService) ListByRecruit(ctx context.Context, actor *identity.User, recruitID uuid.UUID) ([]InterviewDTO, error) {
	recruit, err := s.recruits.findReadable(ctx, actor, recruitID)
	if err != nil {
		return nil, err
	}

	interviews, err := s.interviewRepo.FindByRecruit(ctx, recruit.TeamID, recruit.ID)
	if err != nil {
		s.logger.Error("Failed to list interviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list interviews")
	}

	dtos := make([]InterviewDTO, len(interviews))
	for i, iv := range interviews {
		dtos[i] = *toInterviewDTO(iv)
	}
	return dtos, nil
}

// Upcoming returns pending interviews from now on for an interviewer.
// Nil means the actor's own calendar.
func (s *InterviewService) Upcoming(ctx context.Context, actor *identity.User, interviewerID *uuid.UUID) ([]InterviewDTO, error) {
	interviewer := actor
	if interviewerID != nil && *interviewerID != actor.ID {
		var err error
		interviewer, err = s.recruits.readableUser(ctx, actor, *interviewerID)
		if err != nil {
			return nil, err
		}
	}

	interviews, err := s.interviewRepo.FindUpcoming(ctx, interviewer.TeamID, interviewer.ID, time.Now())
	if err != nil {
		s.logger.Error("Failed to list upcoming interviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list interviews")
	}

	dtos := make([]InterviewDTO, len(interviews))
	for i, iv := range interviews {
		dtos[i] = *toInterviewDTO(iv)
	}
	return dtos, nil
}

// findWritable loads an interview together with its recruit; access
// follows the recruit's owner, masked as absence when invisible.
func (s *InterviewService) findWritable(ctx context.Context, actor *identity.User, id uuid.UUID) (*recruiting.Interview, *recruiting.Recruit, error) {
	interview, err := s.interviewRepo.FindByID(ctx, actor.TeamID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("INTERVIEW_NOT_FOUND", "Interview not found")
		}
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find interview")
	}

	recruit, err := s.recruits.findWritable(ctx, actor, interview.RecruitID)
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) && derr.Code == "RECRUIT_NOT_FOUND" {
			return nil, nil, shared.NewDomainError("INTERVIEW_NOT_FOUND", "Interview not found")
		}
		return nil, nil, err
	}
	return interview, recruit, nil
}

// advanceRecruit moves the pipeline forward as a side effect of
// interview bookkeeping. A recruit already at or past the target stage
// is left alone.
func (s *InterviewService) advanceRecruit(ctx context.Context, recruit *recruiting.Recruit, to recruiting.Stage) {
	if err := recruit.Advance(to); err != nil {
		return
	}
	if _, err := s.recruits.saveAndRender(ctx, recruit); err != nil {
		s.logger.Error("Failed to advance recruit stage",
			zap.String("recruit_id", recruit.ID.String()),
			zap.String("stage", string(to)),
			zap.Error(err))
	}
}

func (s *InterviewService) publishEvents(ctx context.Context, interview *recruiting.Interview) {
	events := interview.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish interview events", zap.Error(err))
	}
	interview.ClearDomainEvents()
}
