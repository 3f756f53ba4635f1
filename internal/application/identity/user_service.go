package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management within a team. Every operation
// takes the acting user so the role rules can be enforced: an actor
// only manages users their role outranks, inside their own team.
type UserService struct {
	userRepo   identity.UserRepository
	teamRepo   identity.TeamRepository
	visibility *VisibilityService
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	teamRepo identity.TeamRepository,
	visibility *VisibilityService,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		visibility: visibility,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Create creates an active user in the actor's team. Super admins
// cannot be created this way.
func (s *UserService) Create(ctx context.Context, actor *identity.User, input CreateUserInput) (*UserDTO, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+input.Role)
	}
	if role == identity.RoleSuperAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Super admin accounts cannot be created through this operation")
	}
	if !actor.Role.CanManage(role) && actor.Role != identity.RoleSuperAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only create users your role outranks")
	}

	teamID := actor.TeamID
	if actor.Role == identity.RoleSuperAdmin {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Super admins create team members through the invite flow")
	}

	if err := s.checkTeamCapacity(ctx, teamID); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
	}

	user, err := identity.NewActiveUser(teamID, input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(user, input); err != nil {
		return nil, err
	}
	if input.ManagerID != nil {
		if err := s.assignManagerChecked(ctx, user, *input.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.ID.String()))

	return toUserDTO(user), nil
}

// Get returns one user the actor is allowed to see
func (s *UserService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List returns the users visible to the actor, filtered and paginated
func (s *UserService) List(ctx context.Context, actor *identity.User, input UserFilterInput) (*UserListResult, error) {
	filter := identity.NewUserFilter()
	filter.TeamID = actor.TeamID
	filter.Keyword = input.Keyword
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.SortBy = input.SortBy
	filter.SortOrder = input.SortOrder
	if input.Status != "" {
		status := identity.UserStatus(input.Status)
		filter.Status = &status
	}
	if input.Role != "" {
		role, err := identity.ParseRole(input.Role)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+input.Role)
		}
		filter.Role = &role
	}

	vis, err := s.visibility.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter.UserIDs = vis.UserIDs

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = *toUserDTO(u)
	}
	return &UserListResult{
		Users:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// DirectReports returns the users directly managed by managerID
func (s *UserService) DirectReports(ctx context.Context, actor *identity.User, managerID uuid.UUID) ([]UserDTO, error) {
	manager, err := s.findAccessible(ctx, actor, managerID)
	if err != nil {
		return nil, err
	}
	reports, err := s.userRepo.FindDirectReports(ctx, manager.TeamID, manager.ID)
	if err != nil {
		s.logger.Error("Failed to load direct reports", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load direct reports")
	}
	dtos := make([]UserDTO, len(reports))
	for i, u := range reports {
		dtos[i] = *toUserDTO(u)
	}
	return dtos, nil
}

// Update modifies a user's profile fields
func (s *UserService) Update(ctx context.Context, actor *identity.User, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findManaged(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if *input.Email != "" && *input.Email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
			if err != nil {
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
			}
			if exists {
				return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already in use")
			}
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.HiredAt != nil {
		if err := user.SetHiredAt(*input.HiredAt); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		user.Notes = *input.Notes
		user.Touch()
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User updated", zap.String("user_id", user.ID.String()))
	return toUserDTO(user), nil
}

// ChangeRole moves a user to a different hierarchy position. Promotion
// requires the actor to outrank the NEW role too, so nobody can raise
// a user to their own level.
func (s *UserService) ChangeRole(ctx context.Context, actor *identity.User, userID uuid.UUID, newRole string) (*UserDTO, error) {
	role, err := identity.ParseRole(newRole)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+newRole)
	}
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleSuperAdmin && !actor.Role.Outranks(role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only assign roles below your own")
	}

	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to change user role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("new_role", string(role)))
	return toUserDTO(user), nil
}

// AssignManager rewires a user's manager edge
func (s *UserService) AssignManager(ctx context.Context, actor *identity.User, userID uuid.UUID, managerID *uuid.UUID) (*UserDTO, error) {
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if managerID == nil {
		if user.Role != identity.RoleStateManager {
			return nil, shared.NewDomainError("MANAGER_REQUIRED", "Only state managers report to nobody")
		}
		if err := user.AssignManager(nil); err != nil {
			return nil, err
		}
	} else {
		if err := s.assignManagerChecked(ctx, user, *managerID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to assign manager", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign manager")
	}

	s.publishEvents(ctx, user)
	return toUserDTO(user), nil
}

// Activate activates a pending or deactivated user
func (s *UserService) Activate(ctx context.Context, actor *identity.User, userID uuid.UUID) (*UserDTO, error) {
	return s.transition(ctx, actor, userID, "activated", func(u *identity.User) error { return u.Activate() })
}

// Deactivate removes a user's access without deleting their history
func (s *UserService) Deactivate(ctx context.Context, actor *identity.User, userID uuid.UUID) (*UserDTO, error) {
	if actor.ID == userID {
		return nil, shared.NewDomainError("FORBIDDEN", "You cannot deactivate your own account")
	}
	return s.transition(ctx, actor, userID, "deactivated", func(u *identity.User) error { return u.Deactivate() })
}

// Lock locks a user's account indefinitely until an admin unlocks it
func (s *UserService) Lock(ctx context.Context, actor *identity.User, userID uuid.UUID) (*UserDTO, error) {
	if actor.ID == userID {
		return nil, shared.NewDomainError("FORBIDDEN", "You cannot lock your own account")
	}
	return s.transition(ctx, actor, userID, "locked", func(u *identity.User) error { return u.Lock(0) })
}

// Unlock clears a lockout before its timer expires
func (s *UserService) Unlock(ctx context.Context, actor *identity.User, userID uuid.UUID) (*UserDTO, error) {
	return s.transition(ctx, actor, userID, "unlocked", func(u *identity.User) error { return u.Unlock() })
}

// ResetPassword sets a temporary password and forces a change on next
// login
func (s *UserService) ResetPassword(ctx context.Context, actor *identity.User, userID uuid.UUID, newPassword string) error {
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.ForcePasswordChange()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Password reset by manager",
		zap.String("user_id", user.ID.String()),
		zap.String("reset_by", actor.ID.String()))
	return nil
}

// Delete removes a deactivated user. Records they produced keep their
// user_id; reports over historical data still count them.
func (s *UserService) Delete(ctx context.Context, actor *identity.User, userID uuid.UUID) error {
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return err
	}
	if user.Status != identity.UserStatusDeactivated {
		return shared.NewDomainError("USER_NOT_DEACTIVATED", "Only deactivated users can be deleted")
	}

	reports, err := s.userRepo.FindDirectReports(ctx, user.TeamID, user.ID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check direct reports")
	}
	if len(reports) > 0 {
		return shared.NewDomainError("HAS_REPORTS", "Reassign this user's direct reports first")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

// findAccessible loads a user the actor may read
func (s *UserService) findAccessible(ctx context.Context, actor *identity.User, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	ok, err := s.visibility.CanAccessUser(ctx, actor, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Indistinguishable from absence so IDs cannot be probed
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

// findManaged loads a user the actor may modify: visible, same team,
// and strictly below the actor's rank (or the actor themselves for
// profile edits)
func (s *UserService) findManaged(ctx context.Context, actor *identity.User, id uuid.UUID) (*identity.User, error) {
	user, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleSuperAdmin {
		return user, nil
	}
	if user.ID == actor.ID {
		return user, nil
	}
	if !actor.Role.Outranks(user.Role) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only manage users your role outranks")
	}
	return user, nil
}

func (s *UserService) applyProfile(user *identity.User, input CreateUserInput) error {
	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return err
		}
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return err
		}
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return err
		}
	}
	if input.HiredAt != nil {
		if err := user.SetHiredAt(*input.HiredAt); err != nil {
			return err
		}
	}
	return nil
}

// assignManagerChecked verifies the manager edge before setting it:
// same team, manager's role can manage the subordinate's role
func (s *UserService) assignManagerChecked(ctx context.Context, user *identity.User, managerID uuid.UUID) error {
	manager, err := s.userRepo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("MANAGER_NOT_FOUND", "Manager not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find manager")
	}
	if manager.TeamID != user.TeamID {
		return shared.ErrTeamMismatch
	}
	if !manager.Role.CanManage(user.Role) {
		return shared.NewDomainError("INVALID_MANAGER", "Manager's role cannot manage this user's role")
	}
	return user.AssignManager(&managerID)
}

func (s *UserService) checkTeamCapacity(ctx context.Context, teamID uuid.UUID) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load team")
	}
	count, err := s.userRepo.CountByTeam(ctx, teamID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to count team members")
	}
	if count >= int64(team.Config.MaxUsers) {
		return shared.NewDomainError("TEAM_FULL", "Team has reached its member limit")
	}
	return nil
}

func (s *UserService) transition(ctx context.Context, actor *identity.User, userID uuid.UUID, action string, fn func(*identity.User) error) (*UserDTO, error) {
	user, err := s.findManaged(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}
	s.publishEvents(ctx, user)
	s.logger.Info("User "+action, zap.String("user_id", user.ID.String()))
	return toUserDTO(user), nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()
}
