package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InviteService handles the invite flow: a manager invites an email
// address into their team at a role below their own; redeeming the
// code creates a pending user that the inviter's chain then activates.
type InviteService struct {
	inviteRepo identity.InviteRepository
	userRepo   identity.UserRepository
	teamRepo   identity.TeamRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewInviteService creates a new invite service
func NewInviteService(
	inviteRepo identity.InviteRepository,
	userRepo identity.UserRepository,
	teamRepo identity.TeamRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Create issues an invite into the actor's team
func (s *InviteService) Create(ctx context.Context, actor *identity.User, input CreateInviteInput) (*InviteDTO, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+input.Role)
	}
	if !actor.Role.CanManage(role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only invite users your role outranks")
	}

	team, err := s.teamRepo.FindByID(ctx, actor.TeamID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load team")
	}
	if !team.IsActive() {
		return nil, shared.NewDomainError("TEAM_INACTIVE", "Inactive teams cannot issue invites")
	}
	count, err := s.userRepo.CountByTeam(ctx, actor.TeamID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count team members")
	}
	if count >= int64(team.Config.MaxUsers) {
		return nil, shared.NewDomainError("TEAM_FULL", "Team has reached its member limit")
	}

	pending, err := s.inviteRepo.HasPendingForEmail(ctx, actor.TeamID, input.Email)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check pending invites")
	}
	if pending {
		return nil, shared.NewDomainError("INVITE_EXISTS", "A pending invite already exists for this email")
	}

	managerID := input.ManagerID
	if managerID == nil && role != identity.RoleStateManager {
		// Default the new member under the inviter
		managerID = &actor.ID
	}
	if managerID != nil {
		manager, err := s.userRepo.FindByID(ctx, *managerID)
		if err != nil {
			return nil, shared.NewDomainError("MANAGER_NOT_FOUND", "Manager not found")
		}
		if manager.TeamID != actor.TeamID {
			return nil, shared.ErrTeamMismatch
		}
		if !manager.Role.CanManage(role) {
			return nil, shared.NewDomainError("INVALID_MANAGER", "Manager's role cannot manage the invited role")
		}
	}

	invite, err := identity.NewInvite(actor.TeamID, input.Email, role, managerID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		s.logger.Error("Failed to create invite", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create invite")
	}

	s.publishEvents(ctx, invite)

	s.logger.Info("Invite created",
		zap.String("invite_id", invite.ID.String()),
		zap.String("team_id", invite.TeamID.String()),
		zap.String("role", string(invite.Role)))

	return toInviteDTO(invite), nil
}

// List returns a team's invites, optionally only pending ones
func (s *InviteService) List(ctx context.Context, teamID uuid.UUID, pendingOnly bool) ([]InviteDTO, error) {
	invites, err := s.inviteRepo.FindByTeam(ctx, teamID, pendingOnly)
	if err != nil {
		s.logger.Error("Failed to list invites", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list invites")
	}
	dtos := make([]InviteDTO, len(invites))
	for i, inv := range invites {
		dtos[i] = *toInviteDTO(inv)
	}
	return dtos, nil
}

// Revoke invalidates a pending invite
func (s *InviteService) Revoke(ctx context.Context, actor *identity.User, inviteID uuid.UUID) error {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVITE_NOT_FOUND", "Invite not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find invite")
	}
	if actor.Role != identity.RoleSuperAdmin && invite.TeamID != actor.TeamID {
		return shared.NewDomainError("INVITE_NOT_FOUND", "Invite not found")
	}

	if err := invite.Revoke(); err != nil {
		return err
	}
	if err := s.inviteRepo.Update(ctx, invite); err != nil {
		s.logger.Error("Failed to revoke invite", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke invite")
	}

	s.logger.Info("Invite revoked", zap.String("invite_id", inviteID.String()))
	return nil
}

// Accept redeems an invite code. The created user is pending until
// someone up the chain activates them; the invite binds the team,
// role, and manager.
func (s *InviteService) Accept(ctx context.Context, input AcceptInviteInput) (*UserDTO, error) {
	invite, err := s.inviteRepo.FindByCode(ctx, input.Code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVITE_NOT_FOUND", "Invalid invite code")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find invite")
	}
	if !invite.IsPending() {
		return nil, shared.NewDomainError("INVITE_NOT_PENDING", "Invite is expired, revoked, or already used")
	}

	team, err := s.teamRepo.FindByID(ctx, invite.TeamID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load team")
	}
	if !team.IsActive() {
		return nil, shared.NewDomainError("TEAM_INACTIVE", "The inviting team is no longer active")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(invite.TeamID, input.Username, input.Password, invite.Role)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(invite.Email); err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if invite.ManagerID != nil {
		if err := user.AssignManager(invite.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := invite.Accept(user.ID); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user from invite", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}
	if err := s.inviteRepo.Update(ctx, invite); err != nil {
		s.logger.Error("Failed to mark invite accepted", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update invite")
	}

	s.publishEvents(ctx, invite)
	events := user.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish user events", zap.Error(err))
		}
		user.ClearDomainEvents()
	}

	s.logger.Info("Invite accepted",
		zap.String("invite_id", invite.ID.String()),
		zap.String("user_id", user.ID.String()))

	return toUserDTO(user), nil
}

func (s *InviteService) publishEvents(ctx context.Context, invite *identity.Invite) {
	events := invite.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish invite events", zap.Error(err))
	}
	invite.ClearDomainEvents()
}
