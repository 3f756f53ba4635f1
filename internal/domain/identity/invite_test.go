package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvite(t *testing.T) {
	teamID := uuid.New()
	invitedBy := uuid.New()

	t.Run("creates pending invite with code", func(t *testing.T) {
		invite, err := NewInvite(teamID, "New.Agent@Example.com", RoleAgent, nil, invitedBy)

		require.NoError(t, err)
		assert.Equal(t, teamID, invite.TeamID)
		assert.Equal(t, "new.agent@example.com", invite.Email)
		assert.Len(t, invite.Code, 32)
		assert.True(t, invite.IsPending())
		assert.False(t, invite.IsExpired())
		assert.WithinDuration(t, time.Now().Add(DefaultInviteTTL), invite.ExpiresAt, time.Minute)

		events := invite.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*InviteCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("codes are unique per invite", func(t *testing.T) {
		a, err := NewInvite(teamID, "a@example.com", RoleAgent, nil, invitedBy)
		require.NoError(t, err)
		b, err := NewInvite(teamID, "b@example.com", RoleAgent, nil, invitedBy)
		require.NoError(t, err)
		assert.NotEqual(t, a.Code, b.Code)
	})

	t.Run("rejects super admin invites", func(t *testing.T) {
		_, err := NewInvite(teamID, "a@example.com", RoleSuperAdmin, nil, invitedBy)
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewInvite(teamID, "not-an-email", RoleAgent, nil, invitedBy)
		assert.Error(t, err)
	})
}

func TestInviteAccept(t *testing.T) {
	teamID := uuid.New()

	t.Run("accept marks invite consumed", func(t *testing.T) {
		invite, err := NewInvite(teamID, "a@example.com", RoleAgent, nil, uuid.New())
		require.NoError(t, err)

		userID := uuid.New()
		require.NoError(t, invite.Accept(userID))

		assert.False(t, invite.IsPending())
		require.NotNil(t, invite.AcceptedBy)
		assert.Equal(t, userID, *invite.AcceptedBy)
	})

	t.Run("cannot accept twice", func(t *testing.T) {
		invite, err := NewInvite(teamID, "a@example.com", RoleAgent, nil, uuid.New())
		require.NoError(t, err)
		require.NoError(t, invite.Accept(uuid.New()))

		assert.Error(t, invite.Accept(uuid.New()))
	})

	t.Run("cannot accept expired invite", func(t *testing.T) {
		invite, err := NewInvite(teamID, "a@example.com", RoleAgent, nil, uuid.New())
		require.NoError(t, err)
		invite.ExpiresAt = time.Now().Add(-time.Hour)

		assert.Error(t, invite.Accept(uuid.New()))
	})

	t.Run("cannot accept revoked invite", func(t *testing.T) {
		invite, err := NewInvite(teamID, "a@example.com", RoleAgent, nil, uuid.New())
		require.NoError(t, err)
		require.NoError(t, invite.Revoke())

		assert.Error(t, invite.Accept(uuid.New()))
		assert.Error(t, invite.Revoke(), "cannot revoke twice")
	})
}
