package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence"
)

// TestRecruitRepository_Integration tests the recruiting pipeline
// persistence against a real PostgreSQL database.
func TestRecruitRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormRecruitRepository(testDB.DB)
	ctx := context.Background()

	teamID := testDB.CreateTestTeam("REC", "Recruiting Team")
	ownerID := testDB.CreateTestUser(teamID, "recruiter", "district_manager", uuid.Nil)

	t.Run("Create and FindByID", func(t *testing.T) {
		recruit, err := recruiting.NewRecruit(teamID, ownerID, "Jane", "Doe")
		require.NoError(t, err)
		require.NoError(t, recruit.SetContact("jane@example.com", "555-0100"))
		require.NoError(t, recruit.SetSource("referral"))
		require.NoError(t, repo.Create(ctx, recruit))

		found, err := repo.FindByID(ctx, teamID, recruit.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", found.FullName())
		assert.Equal(t, recruiting.StageProspect, found.Stage)
		assert.Equal(t, "jane@example.com", found.Email)
		assert.Equal(t, ownerID, found.OwnerID)
	})

	t.Run("Stage transitions persist", func(t *testing.T) {
		recruit, err := recruiting.NewRecruit(teamID, ownerID, "John", "Smith")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, recruit))

		require.NoError(t, recruit.Advance(recruiting.StageContacted))
		require.NoError(t, repo.Update(ctx, recruit))

		found, err := repo.FindByID(ctx, teamID, recruit.ID)
		require.NoError(t, err)
		assert.Equal(t, recruiting.StageContacted, found.Stage)
		assert.False(t, found.StageChangedAt.IsZero())
	})

	t.Run("Rejected recruit keeps the reason", func(t *testing.T) {
		recruit, err := recruiting.NewRecruit(teamID, ownerID, "No", "Show")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, recruit))

		require.NoError(t, recruit.Reject("unresponsive"))
		require.NoError(t, repo.Update(ctx, recruit))

		found, err := repo.FindByID(ctx, teamID, recruit.ID)
		require.NoError(t, err)
		assert.Equal(t, recruiting.StageRejected, found.Stage)
		assert.Equal(t, "unresponsive", found.RejectReason)
	})

	t.Run("FindAll filtered by stage", func(t *testing.T) {
		stageTeam := testDB.CreateTestTeam("REC2", "Stage Team")
		stageOwner := testDB.CreateTestUser(stageTeam, "stageowner", "district_manager", uuid.Nil)

		for i, stage := range []recruiting.Stage{
			recruiting.StageProspect, recruiting.StageProspect, recruiting.StageContacted,
		} {
			recruit, err := recruiting.NewRecruit(stageTeam, stageOwner, "Recruit", string(rune('A'+i)))
			require.NoError(t, err)
			if stage != recruiting.StageProspect {
				require.NoError(t, recruit.Advance(stage))
			}
			require.NoError(t, repo.Create(ctx, recruit))
		}

		filter := recruiting.NewRecruitFilter(stageTeam)
		filter.Stage = recruiting.StageProspect

		recruits, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, r := range recruits {
			assert.Equal(t, recruiting.StageProspect, r.Stage)
		}
	})

	t.Run("CountByStage", func(t *testing.T) {
		countTeam := testDB.CreateTestTeam("REC3", "Count Team")
		countOwner := testDB.CreateTestUser(countTeam, "countowner", "district_manager", uuid.Nil)

		stages := []recruiting.Stage{
			recruiting.StageProspect,
			recruiting.StageProspect,
			recruiting.StageContacted,
		}
		for i, stage := range stages {
			recruit, err := recruiting.NewRecruit(countTeam, countOwner, "Count", string(rune('A'+i)))
			require.NoError(t, err)
			if stage != recruiting.StageProspect {
				require.NoError(t, recruit.Advance(stage))
			}
			require.NoError(t, repo.Create(ctx, recruit))
		}

		counts, err := repo.CountByStage(ctx, countTeam, nil)
		require.NoError(t, err)

		byStage := make(map[recruiting.Stage]int64)
		for _, c := range counts {
			byStage[c.Stage] = c.Count
		}
		assert.Equal(t, int64(2), byStage[recruiting.StageProspect])
		assert.Equal(t, int64(1), byStage[recruiting.StageContacted])
	})

	t.Run("Cross-team lookup fails", func(t *testing.T) {
		recruit, err := recruiting.NewRecruit(teamID, ownerID, "Hidden", "Recruit")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, recruit))

		_, err = repo.FindByID(ctx, uuid.New(), recruit.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestInterviewRepository_Integration tests interview scheduling
// persistence against a real PostgreSQL database.
func TestInterviewRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	recruitRepo := persistence.NewGormRecruitRepository(testDB.DB)
	repo := persistence.NewGormInterviewRepository(testDB.DB)
	ctx := context.Background()

	teamID := testDB.CreateTestTeam("INT", "Interview Team")
	ownerID := testDB.CreateTestUser(teamID, "intowner", "district_manager", uuid.Nil)
	interviewerID := testDB.CreateTestUser(teamID, "interviewer", "regional_manager", uuid.Nil)

	recruit, err := recruiting.NewRecruit(teamID, ownerID, "Ivy", "Candidate")
	require.NoError(t, err)
	require.NoError(t, recruitRepo.Create(ctx, recruit))

	when := time.Now().Add(48 * time.Hour).Truncate(time.Second).UTC()

	t.Run("Create and FindByRecruit", func(t *testing.T) {
		interview, err := recruiting.NewInterview(teamID, recruit.ID, interviewerID, when, "Main office")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, interview))

		interviews, err := repo.FindByRecruit(ctx, teamID, recruit.ID)
		require.NoError(t, err)
		require.Len(t, interviews, 1)
		assert.Equal(t, recruiting.OutcomePending, interviews[0].Outcome)
		assert.Equal(t, "Main office", interviews[0].Location)
	})

	t.Run("Complete records feedback", func(t *testing.T) {
		interviews, err := repo.FindByRecruit(ctx, teamID, recruit.ID)
		require.NoError(t, err)
		require.NotEmpty(t, interviews)

		interview := interviews[0]
		require.NoError(t, interview.Complete("strong communicator"))
		require.NoError(t, repo.Update(ctx, interview))

		found, err := repo.FindByID(ctx, teamID, interview.ID)
		require.NoError(t, err)
		assert.Equal(t, recruiting.OutcomeCompleted, found.Outcome)
		assert.Equal(t, "strong communicator", found.Feedback)
	})

	t.Run("FindUpcoming for interviewer", func(t *testing.T) {
		other, err := recruiting.NewRecruit(teamID, ownerID, "Second", "Candidate")
		require.NoError(t, err)
		require.NoError(t, recruitRepo.Create(ctx, other))

		upcoming, err := recruiting.NewInterview(teamID, other.ID, interviewerID, when.Add(24*time.Hour), "Remote")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, upcoming))

		found, err := repo.FindUpcoming(ctx, teamID, interviewerID, time.Now())
		require.NoError(t, err)
		require.NotEmpty(t, found)
		for _, i := range found {
			assert.Equal(t, interviewerID, i.InterviewerID)
			assert.True(t, i.ScheduledAt.After(time.Now().Add(-time.Minute)))
		}
	})
}
