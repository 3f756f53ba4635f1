package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

// DefaultInviteTTL is how long an invite stays valid
const DefaultInviteTTL = 7 * 24 * time.Hour

// Invite is a team-scoped invitation. Accepting it creates a pending user
// bound to the invite's team, role, and manager.
type Invite struct {
	shared.TeamAggregateRoot
	Email      string
	Role       Role
	ManagerID  *uuid.UUID
	Code       string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	AcceptedBy *uuid.UUID
	RevokedAt  *time.Time
}

// NewInvite creates an invite for an email address to join a team
func NewInvite(teamID uuid.UUID, email string, role Role, managerID *uuid.UUID, invitedBy uuid.UUID) (*Invite, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Invite must belong to a team")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() || role == RoleSuperAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invites cannot grant this role")
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, shared.NewDomainError("INVITE_CODE_ERROR", "Failed to generate invite code")
	}

	invite := &Invite{
		TeamAggregateRoot: shared.NewTeamAggregateRootWithCreator(teamID, invitedBy),
		Email:             email,
		Role:              role,
		ManagerID:         managerID,
		Code:              code,
		ExpiresAt:         time.Now().Add(DefaultInviteTTL),
	}

	invite.AddDomainEvent(NewInviteCreatedEvent(invite))

	return invite, nil
}

// IsExpired reports whether the invite has passed its expiry
func (i *Invite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the invite can still be accepted
func (i *Invite) IsPending() bool {
	return i.AcceptedAt == nil && i.RevokedAt == nil && !i.IsExpired()
}

// Accept marks the invite as accepted by the created user
func (i *Invite) Accept(userID uuid.UUID) error {
	if i.RevokedAt != nil {
		return shared.NewDomainError("INVITE_REVOKED", "Invite has been revoked")
	}
	if i.AcceptedAt != nil {
		return shared.NewDomainError("INVITE_USED", "Invite has already been accepted")
	}
	if i.IsExpired() {
		return shared.NewDomainError("INVITE_EXPIRED", "Invite has expired")
	}
	now := time.Now()
	i.AcceptedAt = &now
	i.AcceptedBy = &userID
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewInviteAcceptedEvent(i, userID))
	return nil
}

// Revoke invalidates a pending invite
func (i *Invite) Revoke() error {
	if i.AcceptedAt != nil {
		return shared.NewDomainError("INVITE_USED", "Accepted invites cannot be revoked")
	}
	if i.RevokedAt != nil {
		return shared.NewDomainError("INVITE_REVOKED", "Invite is already revoked")
	}
	now := time.Now()
	i.RevokedAt = &now
	i.Touch()
	i.IncrementVersion()
	return nil
}

func generateInviteCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
