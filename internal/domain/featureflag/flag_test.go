package featureflag

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature(" Leaderboard ")
	require.NoError(t, err)
	assert.Equal(t, FeatureLeaderboard, f)

	_, err = ParseFeature("dark_mode")
	assert.Error(t, err)

	for _, f := range AllFeatures() {
		assert.True(t, f.IsValid())
	}
}

func TestNewFlag(t *testing.T) {
	teamID := uuid.New()

	t.Run("creates flag for known feature", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureRecruiting, false)
		require.NoError(t, err)
		assert.Equal(t, teamID, flag.TeamID)
		assert.False(t, flag.Enabled)
	})

	t.Run("rejects unknown feature", func(t *testing.T) {
		_, err := NewFlag(teamID, Feature("dark_mode"), true)
		assert.Error(t, err)
	})

	t.Run("requires team", func(t *testing.T) {
		_, err := NewFlag(uuid.Nil, FeatureRecruiting, true)
		assert.Error(t, err)
	})
}

func TestFlagEnabledFor(t *testing.T) {
	teamID := uuid.New()

	t.Run("override wins over team bit", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureLeaderboard, true)
		require.NoError(t, err)
		require.NoError(t, flag.SetRoleOverride(identity.RoleAgent, false))

		assert.False(t, flag.EnabledFor(identity.RoleAgent))
		assert.True(t, flag.EnabledFor(identity.RoleDistrictManager))
	})

	t.Run("override can enable within a disabled feature", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureRecruiting, false)
		require.NoError(t, err)
		require.NoError(t, flag.SetRoleOverride(identity.RoleStateManager, true))

		assert.True(t, flag.EnabledFor(identity.RoleStateManager))
		assert.False(t, flag.EnabledFor(identity.RoleAgent))
	})

	t.Run("clearing override restores team bit", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureLeaderboard, true)
		require.NoError(t, err)
		require.NoError(t, flag.SetRoleOverride(identity.RoleAgent, false))
		flag.ClearRoleOverride(identity.RoleAgent)

		assert.True(t, flag.EnabledFor(identity.RoleAgent))
	})

	t.Run("super admin bypasses flags", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureRecruiting, false)
		require.NoError(t, err)
		assert.True(t, flag.EnabledFor(identity.RoleSuperAdmin))
	})

	t.Run("override cannot target super admin", func(t *testing.T) {
		flag, err := NewFlag(teamID, FeatureRecruiting, true)
		require.NoError(t, err)
		assert.Error(t, flag.SetRoleOverride(identity.RoleSuperAdmin, false))
	})
}

func TestEvaluate(t *testing.T) {
	teamID := uuid.New()
	disabled, err := NewFlag(teamID, FeatureRecruiting, false)
	require.NoError(t, err)
	flags := []*Flag{disabled}

	t.Run("configured flag wins", func(t *testing.T) {
		assert.False(t, Evaluate(flags, FeatureRecruiting, identity.RoleAgent))
	})

	t.Run("unconfigured feature uses registry default", func(t *testing.T) {
		assert.True(t, Evaluate(flags, FeatureLeaderboard, identity.RoleAgent))
	})

	t.Run("super admin sees everything", func(t *testing.T) {
		assert.True(t, Evaluate(flags, FeatureRecruiting, identity.RoleSuperAdmin))
	})
}
