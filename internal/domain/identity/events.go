package identity

import (
	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser   = "User"
	AggregateTypeTeam   = "Team"
	AggregateTypeInvite = "Invite"
)

// Identity domain event types
const (
	EventTypeUserCreated        = "UserCreated"
	EventTypeUserDeactivated    = "UserDeactivated"
	EventTypeUserRoleChanged    = "UserRoleChanged"
	EventTypeUserManagerChanged = "UserManagerChanged"
	EventTypeTeamCreated        = "TeamCreated"
	EventTypeInviteCreated      = "InviteCreated"
	EventTypeInviteAccepted     = "InviteAccepted"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.TeamID),
		Username:        user.Username,
		Role:            user.Role,
		Status:          user.Status,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID, user.TeamID),
		Username:        user.Username,
	}
}

// UserRoleChangedEvent is published when a user's hierarchy role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	OldRole  Role   `json:"old_role"`
	NewRole  Role   `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, oldRole, newRole Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID, user.TeamID),
		Username:        user.Username,
		OldRole:         oldRole,
		NewRole:         newRole,
	}
}

// UserManagerChangedEvent is published when a user is moved under a
// different manager. Downstream consumers (hierarchy caches) react to it.
type UserManagerChangedEvent struct {
	shared.BaseDomainEvent
	OldManagerID *uuid.UUID `json:"old_manager_id,omitempty"`
	NewManagerID *uuid.UUID `json:"new_manager_id,omitempty"`
}

// NewUserManagerChangedEvent creates a new UserManagerChangedEvent
func NewUserManagerChangedEvent(user *User, oldManagerID, newManagerID *uuid.UUID) *UserManagerChangedEvent {
	return &UserManagerChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserManagerChanged, AggregateTypeUser, user.ID, user.TeamID),
		OldManagerID:    oldManagerID,
		NewManagerID:    newManagerID,
	}
}

// TeamCreatedEvent is published when a team is created
type TeamCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTeamCreatedEvent creates a new TeamCreatedEvent
func NewTeamCreatedEvent(team *Team) *TeamCreatedEvent {
	return &TeamCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamCreated, AggregateTypeTeam, team.ID, team.ID),
		Code:            team.Code,
		Name:            team.Name,
	}
}

// InviteCreatedEvent is published when an invite is issued
type InviteCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewInviteCreatedEvent creates a new InviteCreatedEvent
func NewInviteCreatedEvent(invite *Invite) *InviteCreatedEvent {
	return &InviteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteCreated, AggregateTypeInvite, invite.ID, invite.TeamID),
		Email:           invite.Email,
		Role:            invite.Role,
	}
}

// InviteAcceptedEvent is published when an invite is accepted
type InviteAcceptedEvent struct {
	shared.BaseDomainEvent
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"user_id"`
}

// NewInviteAcceptedEvent creates a new InviteAcceptedEvent
func NewInviteAcceptedEvent(invite *Invite, userID uuid.UUID) *InviteAcceptedEvent {
	return &InviteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteAccepted, AggregateTypeInvite, invite.ID, invite.TeamID),
		Email:           invite.Email,
		UserID:          userID,
	}
}
