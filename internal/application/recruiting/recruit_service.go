package recruiting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
)

// RecruitService manages the hiring pipeline. Recruits are owned by
// the team member recruiting them; who sees whose prospects follows
// the same subtree visibility as activity records.
type RecruitService struct {
	recruitRepo recruiting.RecruitRepository
	userRepo    identity.UserRepository
	visibility  *identityapp.VisibilityService
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewRecruitService creates a new recruit service
func NewRecruitService(
	recruitRepo recruiting.RecruitRepository,
	userRepo identity.UserRepository,
	visibility *identityapp.VisibilityService,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *RecruitService {
	return &RecruitService{
		recruitRepo: recruitRepo,
		userRepo:    userRepo,
		visibility:  visibility,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Create adds a prospect. Agents recruit for themselves; managers may
// also create prospects owned by someone in their subtree.
func (s *RecruitService) Create(ctx context.Context, actor *identity.User, input CreateRecruitInput) (*RecruitDTO, error) {
	owner, err := s.writableOwner(ctx, actor, input.OwnerID)
	if err != nil {
		return nil, err
	}

	recruit, err := recruiting.NewRecruit(owner.TeamID, owner.ID, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	if err := recruit.SetContact(input.Email, input.Phone); err != nil {
		return nil, err
	}
	if err := recruit.SetSource(input.Source); err != nil {
		return nil, err
	}
	if err := recruit.SetNotes(input.Notes); err != nil {
		return nil, err
	}

	if err := s.recruitRepo.Create(ctx, recruit); err != nil {
		s.logger.Error("Failed to create recruit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create recruit")
	}

	s.publishEvents(ctx, recruit)

	s.logger.Info("Recruit created",
		zap.String("recruit_id", recruit.ID.String()),
		zap.String("owner_id", owner.ID.String()))

	return toRecruitDTO(recruit), nil
}

// Get returns one prospect the actor is allowed to see
func (s *RecruitService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*RecruitDTO, error) {
	recruit, err := s.findReadable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toRecruitDTO(recruit), nil
}

// List returns prospects inside the actor's visibility, optionally
// narrowed to one owner, a stage, or a name/email keyword
func (s *RecruitService) List(ctx context.Context, actor *identity.User, input ListRecruitsInput) (*ListRecruitsResult, error) {
	filter := recruiting.NewRecruitFilter(actor.TeamID)
	filter.Keyword = input.Keyword
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.Stage != "" {
		stage, err := recruiting.ParseStage(input.Stage)
		if err != nil {
			return nil, err
		}
		filter.Stage = stage
	}

	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if input.OwnerID != nil {
		if !vis.Contains(*input.OwnerID) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		filter.OwnerIDs = []uuid.UUID{*input.OwnerID}
	} else {
		filter.OwnerIDs = vis.UserIDs
	}

	recruits, total, err := s.recruitRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list recruits", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list recruits")
	}

	dtos := make([]RecruitDTO, len(recruits))
	for i, r := range recruits {
		dtos[i] = *toRecruitDTO(r)
	}
	return &ListRecruitsResult{
		Recruits:   dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// Update edits contact details. Nil fields keep their current value.
func (s *RecruitService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, input UpdateRecruitInput) (*RecruitDTO, error) {
	recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	email, phone := recruit.Email, recruit.Phone
	if input.Email != nil {
		email = *input.Email
	}
	if input.Phone != nil {
		phone = *input.Phone
	}
	if err := recruit.SetContact(email, phone); err != nil {
		return nil, err
	}
	if input.Source != nil {
		if err := recruit.SetSource(*input.Source); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		if err := recruit.SetNotes(*input.Notes); err != nil {
			return nil, err
		}
	}

	return s.saveAndRender(ctx, recruit)
}

// Advance moves a prospect forward in the pipeline.
func (s *RecruitService) Advance(ctx context.Context, actor *identity.User, id uuid.UUID, stageName string) (*RecruitDTO, error) {
	stage, err := recruiting.ParseStage(stageName)
	if err != nil {
		return nil, err
	}
	recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := recruit.Advance(stage); err != nil {
		return nil, err
	}
	return s.saveAndRender(ctx, recruit)
}

// Reject closes a prospect's pipeline with an optional reason.
func (s *RecruitService) Reject(ctx context.Context, actor *identity.User, id uuid.UUID, reason string) (*RecruitDTO, error) {
	recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := recruit.Reject(reason); err != nil {
		return nil, err
	}
	return s.saveAndRender(ctx, recruit)
}

// Hire closes the pipeline from an offer. The hired event triggers an
// account invite when the recruit has an email on file.
func (s *RecruitService) Hire(ctx context.Context, actor *identity.User, id uuid.UUID) (*RecruitDTO, error) {
	recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := recruit.Hire(); err != nil {
		return nil, err
	}

	dto, err := s.saveAndRender(ctx, recruit)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recruit hired",
		zap.String("recruit_id", recruit.ID.String()),
		zap.String("hired_by", actor.ID.String()))
	return dto, nil
}

// Delete removes a prospect. Only managers may delete, and only inside
// their subtree; an agent withdraws a prospect by rejecting it.
func (s *RecruitService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if actor.Role == identity.RoleAgent {
		return shared.NewDomainError("FORBIDDEN", "Only managers can delete recruits")
	}
	recruit, err := s.findWritable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.recruitRepo.Delete(ctx, recruit.TeamID, recruit.ID); err != nil {
		s.logger.Error("Failed to delete recruit", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete recruit")
	}
	s.logger.Info("Recruit deleted",
		zap.String("recruit_id", id.String()),
		zap.String("deleted_by", actor.ID.String()))
	return nil
}

// Pipeline returns the funnel over the actor's visibility, zero-filled
// so every stage appears even when empty.
func (s *RecruitService) Pipeline(ctx context.Context, actor *identity.User) (*PipelineDTO, error) {
	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	counts, err := s.recruitRepo.CountByStage(ctx, actor.TeamID, vis.UserIDs)
	if err != nil {
		s.logger.Error("Failed to count pipeline stages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load pipeline")
	}

	byStage := make(map[recruiting.Stage]int64, len(counts))
	for _, c := range counts {
		byStage[c.Stage] = c.Count
	}

	ordered := []recruiting.Stage{
		recruiting.StageProspect,
		recruiting.StageContacted,
		recruiting.StageInterviewScheduled,
		recruiting.StageInterviewed,
		recruiting.StageOffered,
		recruiting.StageHired,
		recruiting.StageRejected,
	}
	dto := &PipelineDTO{Stages: make([]StageCountDTO, 0, len(ordered))}
	for _, stage := range ordered {
		count := byStage[stage]
		dto.Stages = append(dto.Stages, StageCountDTO{Stage: string(stage), Count: count})
		dto.Total += count
	}
	return dto, nil
}

// writableOwner resolves who a new prospect belongs to. Nil means the
// actor; anyone else must sit inside the actor's subtree.
func (s *RecruitService) writableOwner(ctx context.Context, actor *identity.User, ownerID *uuid.UUID) (*identity.User, error) {
	if ownerID == nil || *ownerID == actor.ID {
		return actor, nil
	}
	owner, err := s.readableUser(ctx, actor, *ownerID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleSuperAdmin && !actor.Role.Outranks(owner.Role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only create recruits for users your role outranks")
	}
	return owner, nil
}

// readableUser loads a user inside the actor's visibility, masking
// invisible users as absent
func (s *RecruitService) readableUser(ctx context.Context, actor *identity.User, userID uuid.UUID) (*identity.User, error) {
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

func (s *RecruitService) findReadable(ctx context.Context, actor *identity.User, id uuid.UUID) (*recruiting.Recruit, error) {
	recruit, err := s.recruitRepo.FindByID(ctx, actor.TeamID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RECRUIT_NOT_FOUND", "Recruit not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find recruit")
	}
	if _, err := s.readableUser(ctx, actor, recruit.OwnerID); err != nil {
		return nil, shared.NewDomainError("RECRUIT_NOT_FOUND", "Recruit not found")
	}
	return recruit, nil
}

func (s *RecruitService) findWritable(ctx context.Context, actor *identity.User, id uuid.UUID) (*recruiting.Recruit, error) {
	recruit, err := s.findReadable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if recruit.OwnerID == actor.ID || actor.Role == identity.RoleSuperAdmin {
		return recruit, nil
	}
	owner, err := s.readableUser(ctx, actor, recruit.OwnerID)
	if err != nil {
		return nil, shared.NewDomainError("RECRUIT_NOT_FOUND", "Recruit not found")
	}
	if !actor.Role.Outranks(owner.Role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only manage recruits owned by users your role outranks")
	}
	return recruit, nil
}

func (s *RecruitService) saveAndRender(ctx context.Context, recruit *recruiting.Recruit) (*RecruitDTO, error) {
	if err := s.recruitRepo.Update(ctx, recruit); err != nil {
		s.logger.Error("Failed to save recruit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save recruit")
	}
	s.publishEvents(ctx, recruit)
	return toRecruitDTO(recruit), nil
}

func (s *RecruitService) publishEvents(ctx context.Context, recruit *recruiting.Recruit) {
	events := recruit.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish recruit events", zap.Error(err))
	}
	recruit.ClearDomainEvents()
}
