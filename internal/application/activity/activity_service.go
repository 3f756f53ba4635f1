package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/activity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// ActivityService handles daily activity logging. A day's record is
// keyed by (team, user, date): logging the same day again replaces the
// metrics instead of adding a second row.
type ActivityService struct {
	activityRepo activity.Repository
	userRepo     identity.UserRepository
	teamRepo     identity.TeamRepository
	visibility   *identityapp.VisibilityService
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo activity.Repository,
	userRepo identity.UserRepository,
	teamRepo identity.TeamRepository,
	visibility *identityapp.VisibilityService,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		teamRepo:     teamRepo,
		visibility:   visibility,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Log records a day's production for a user, replacing any record
// already stored for that day. Agents log for themselves; managers may
// log for anyone in their subtree.
func (s *ActivityService) Log(ctx context.Context, actor *identity.User, input LogInput) (*ActivityDTO, error) {
	target, err := s.writableTarget(ctx, actor, input.UserID)
	if err != nil {
		return nil, err
	}

	loc, err := s.teamLocation(ctx, target.TeamID)
	if err != nil {
		return nil, err
	}
	day, err := activity.NormalizeDate(input.Date, loc)
	if err != nil {
		return nil, err
	}

	existing, err := s.activityRepo.FindByUserAndDate(ctx, target.TeamID, target.ID, day)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up existing activity", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to look up activity")
	}

	if existing != nil {
		if err := existing.UpdateMetrics(input.Metrics.toMetrics()); err != nil {
			return nil, err
		}
		if err := existing.SetNote(input.Note); err != nil {
			return nil, err
		}
		if err := s.activityRepo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to replace activity", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save activity")
		}
		s.publishEvents(ctx, existing)
		return toActivityDTO(existing), nil
	}

	record, err := activity.NewActivity(target.TeamID, target.ID, day, input.Metrics.toMetrics(), loc)
	if err != nil {
		return nil, err
	}
	if input.Note != "" {
		if err := record.SetNote(input.Note); err != nil {
			return nil, err
		}
	}

	if err := s.activityRepo.Create(ctx, record); err != nil {
		// Two writers raced on the same day; the second becomes an update
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.Log(ctx, actor, input)
		}
		s.logger.Error("Failed to create activity", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save activity")
	}

	s.publishEvents(ctx, record)

	s.logger.Info("Activity logged",
		zap.String("activity_id", record.ID.String()),
		zap.String("user_id", target.ID.String()),
		zap.Time("date", day))

	return toActivityDTO(record), nil
}

// Patch updates individual metrics on an existing record. Nil input
// fields keep their current value.
func (s *ActivityService) Patch(ctx context.Context, actor *identity.User, input PatchInput) (*ActivityDTO, error) {
	record, err := s.findWritable(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	metrics := record.Metrics
	if input.Contacts != nil {
		metrics.Contacts = *input.Contacts
	}
	if input.Appointments != nil {
		metrics.Appointments = *input.Appointments
	}
	if input.Presentations != nil {
		metrics.Presentations = *input.Presentations
	}
	if input.Referrals != nil {
		metrics.Referrals = *input.Referrals
	}
	if input.Sales != nil {
		metrics.Sales = *input.Sales
	}
	if input.Premium != nil {
		metrics.Premium = *input.Premium
	}
	if input.RecruitingContacts != nil {
		metrics.RecruitingContacts = *input.RecruitingContacts
	}

	if err := record.UpdateMetrics(metrics); err != nil {
		return nil, err
	}
	if input.Note != nil {
		if err := record.SetNote(*input.Note); err != nil {
			return nil, err
		}
	}

	if err := s.activityRepo.Update(ctx, record); err != nil {
		s.logger.Error("Failed to patch activity", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save activity")
	}

	s.publishEvents(ctx, record)
	return toActivityDTO(record), nil
}

// Get returns one record the actor is allowed to see
func (s *ActivityService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*ActivityDTO, error) {
	record, err := s.findReadable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toActivityDTO(record), nil
}

// GetByUserAndDate returns a user's record for one calendar day
func (s *ActivityService) GetByUserAndDate(ctx context.Context, actor *identity.User, userID uuid.UUID, date time.Time) (*ActivityDTO, error) {
	target, err := s.readableUser(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	loc, err := s.teamLocation(ctx, target.TeamID)
	if err != nil {
		return nil, err
	}
	day, err := activity.NormalizeDate(date, loc)
	if err != nil {
		return nil, err
	}

	record, err := s.activityRepo.FindByUserAndDate(ctx, target.TeamID, target.ID, day)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ACTIVITY_NOT_FOUND", "No activity logged for this date")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find activity")
	}
	return toActivityDTO(record), nil
}

// List returns activities inside the actor's visibility, optionally
// narrowed to one user and a date range
func (s *ActivityService) List(ctx context.Context, actor *identity.User, input ListInput) (*ListResult, error) {
	filter := activity.NewFilter(actor.TeamID)
	filter.From = input.From
	filter.To = input.To
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if input.UserID != nil {
		if !vis.Contains(*input.UserID) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		filter.UserIDs = []uuid.UUID{*input.UserID}
	} else {
		filter.UserIDs = vis.UserIDs
	}

	records, total, err := s.activityRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list activities", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list activities")
	}

	dtos := make([]ActivityDTO, len(records))
	for i, r := range records {
		dtos[i] = *toActivityDTO(r)
	}
	return &ListResult{
		Activities: dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// Delete removes a day's record. Agents cannot delete, not even their
// own rows; a correction is a new log for the same day.
func (s *ActivityService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if actor.Role == identity.RoleAgent {
		return shared.NewDomainError("FORBIDDEN", "Only managers can delete activity records")
	}
	record, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.activityRepo.Delete(ctx, record.TeamID, record.ID); err != nil {
		s.logger.Error("Failed to delete activity", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete activity")
	}
	s.logger.Info("Activity deleted",
		zap.String("activity_id", id.String()),
		zap.String("deleted_by", actor.ID.String()))
	return nil
}

// writableTarget resolves the record owner for a write. Nil targetID
// means the actor writes their own record; anything else requires the
// target to sit inside the actor's subtree.
func (s *ActivityService) writableTarget(ctx context.Context, actor *identity.User, targetID *uuid.UUID) (*identity.User, error) {
	if targetID == nil || *targetID == actor.ID {
		return actor, nil
	}
	target, err := s.readableUser(ctx, actor, *targetID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleSuperAdmin && !actor.Role.Outranks(target.Role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only log activity for users your role outranks")
	}
	return target, nil
}

// readableUser loads a user inside the actor's visibility, masking
// invisible users as absent
func (s *ActivityService) readableUser(ctx context.Context, actor *identity.User, userID uuid.UUID) (*identity.User, error) {
	if userID == actor.ID {
		return actor, nil
	}
	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	ok, err := s.visibility.CanAccessUser(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return target, nil
}

func (s *ActivityService) findReadable(ctx context.Context, actor *identity.User, id uuid.UUID) (*activity.Activity, error) {
	teamID := actor.TeamID
	record, err := s.activityRepo.FindByID(ctx, teamID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ACTIVITY_NOT_FOUND", "Activity not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find activity")
	}
	if _, err := s.readableUser(ctx, actor, record.UserID); err != nil {
		return nil, shared.NewDomainError("ACTIVITY_NOT_FOUND", "Activity not found")
	}
	return record, nil
}

func (s *ActivityService) findWritable(ctx context.Context, actor *identity.User, id uuid.UUID) (*activity.Activity, error) {
	record, err := s.findReadable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if record.UserID == actor.ID {
		return record, nil
	}
	owner, err := s.readableUser(ctx, actor, record.UserID)
	if err != nil {
		return nil, shared.NewDomainError("ACTIVITY_NOT_FOUND", "Activity not found")
	}
	if actor.Role != identity.RoleSuperAdmin && !actor.Role.Outranks(owner.Role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only modify records of users your role outranks")
	}
	return record, nil
}

func (s *ActivityService) teamLocation(ctx context.Context, teamID uuid.UUID) (*time.Location, error) {
	if teamID == uuid.Nil {
		return time.UTC, nil
	}
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load team")
	}
	return team.Location(), nil
}

func (s *ActivityService) publishEvents(ctx context.Context, record *activity.Activity) {
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish activity events", zap.Error(err))
	}
	record.ClearDomainEvents()
}
