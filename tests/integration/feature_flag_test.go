package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence"
)

// TestFeatureFlagRepository_Integration tests flag persistence including
// the jsonb role overrides against a real PostgreSQL database.
func TestFeatureFlagRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormFeatureFlagRepository(testDB.DB)
	ctx := context.Background()

	teamID := testDB.CreateTestTeam("FLAGS", "Flag Team")

	t.Run("Save and FindByTeamAndFeature", func(t *testing.T) {
		flag, err := featureflag.NewFlag(teamID, featureflag.FeatureLeaderboard, false)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, flag))

		found, err := repo.FindByTeamAndFeature(ctx, teamID, featureflag.FeatureLeaderboard)
		require.NoError(t, err)
		assert.Equal(t, featureflag.FeatureLeaderboard, found.Feature)
		assert.False(t, found.Enabled)
		assert.Equal(t, teamID, found.TeamID)
	})

	t.Run("Save upserts on conflict", func(t *testing.T) {
		flag, err := featureflag.NewFlag(teamID, featureflag.FeatureRecruiting, true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, flag))

		// Saving again for the same team and feature updates in place.
		flag.SetEnabled(false)
		require.NoError(t, repo.Save(ctx, flag))

		found, err := repo.FindByTeamAndFeature(ctx, teamID, featureflag.FeatureRecruiting)
		require.NoError(t, err)
		assert.False(t, found.Enabled)

		flags, err := repo.FindByTeam(ctx, teamID)
		require.NoError(t, err)
		count := 0
		for _, f := range flags {
			if f.Feature == featureflag.FeatureRecruiting {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("Role overrides survive the jsonb round trip", func(t *testing.T) {
		flag, err := featureflag.NewFlag(teamID, featureflag.FeatureDocuments, true)
		require.NoError(t, err)
		require.NoError(t, flag.SetRoleOverride(identity.RoleAgent, false))
		require.NoError(t, flag.SetRoleOverride(identity.RoleDistrictManager, true))
		require.NoError(t, repo.Save(ctx, flag))

		found, err := repo.FindByTeamAndFeature(ctx, teamID, featureflag.FeatureDocuments)
		require.NoError(t, err)
		assert.False(t, found.EnabledFor(identity.RoleAgent))
		assert.True(t, found.EnabledFor(identity.RoleDistrictManager))
		assert.True(t, found.EnabledFor(identity.RoleStateManager))
	})

	t.Run("Same feature independent across teams", func(t *testing.T) {
		otherTeam := testDB.CreateTestTeam("FLAGS2", "Other Flag Team")

		ours, err := featureflag.NewFlag(teamID, featureflag.FeatureNPATracker, false)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, ours))

		theirs, err := featureflag.NewFlag(otherTeam, featureflag.FeatureNPATracker, true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, theirs))

		found, err := repo.FindByTeamAndFeature(ctx, otherTeam, featureflag.FeatureNPATracker)
		require.NoError(t, err)
		assert.True(t, found.Enabled)

		found, err = repo.FindByTeamAndFeature(ctx, teamID, featureflag.FeatureNPATracker)
		require.NoError(t, err)
		assert.False(t, found.Enabled)
	})

	t.Run("Missing flag returns not found", func(t *testing.T) {
		_, err := repo.FindByTeamAndFeature(ctx, uuid.New(), featureflag.FeatureLeaderboard)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		flag, err := featureflag.NewFlag(teamID, featureflag.FeatureSNATracker, true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, flag))

		require.NoError(t, repo.Delete(ctx, teamID, featureflag.FeatureSNATracker))

		_, err = repo.FindByTeamAndFeature(ctx, teamID, featureflag.FeatureSNATracker)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
