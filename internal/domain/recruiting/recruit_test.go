package recruiting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecruit(t *testing.T) *Recruit {
	t.Helper()
	r, err := NewRecruit(uuid.New(), uuid.New(), "Jamie", "Rivera")
	require.NoError(t, err)
	return r
}

func TestNewRecruit(t *testing.T) {
	t.Run("starts as prospect", func(t *testing.T) {
		teamID, ownerID := uuid.New(), uuid.New()
		r, err := NewRecruit(teamID, ownerID, "  Jamie ", "Rivera")

		require.NoError(t, err)
		assert.Equal(t, teamID, r.TeamID)
		assert.Equal(t, ownerID, r.OwnerID)
		assert.Equal(t, "Jamie", r.FirstName)
		assert.Equal(t, StageProspect, r.Stage)
		assert.Equal(t, "Jamie Rivera", r.FullName())

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*RecruitCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("requires first name and owner", func(t *testing.T) {
		_, err := NewRecruit(uuid.New(), uuid.New(), "  ", "Rivera")
		assert.Error(t, err)
		_, err = NewRecruit(uuid.New(), uuid.Nil, "Jamie", "Rivera")
		assert.Error(t, err)
	})
}

func TestParseStage(t *testing.T) {
	st, err := ParseStage(" Interview_Scheduled ")
	require.NoError(t, err)
	assert.Equal(t, StageInterviewScheduled, st)

	_, err = ParseStage("ghosted")
	assert.Error(t, err)

	assert.True(t, StageHired.IsTerminal())
	assert.True(t, StageRejected.IsTerminal())
	assert.False(t, StageOffered.IsTerminal())
}

func TestRecruitAdvance(t *testing.T) {
	t.Run("moves forward through the pipeline", func(t *testing.T) {
		r := newRecruit(t)
		r.ClearDomainEvents()

		require.NoError(t, r.Advance(StageContacted))
		require.NoError(t, r.Advance(StageInterviewScheduled))
		require.NoError(t, r.Advance(StageInterviewed))
		require.NoError(t, r.Advance(StageOffered))

		events := r.GetDomainEvents()
		require.Len(t, events, 4)
		changed, ok := events[0].(*RecruitStageChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StageProspect, changed.FromStage)
		assert.Equal(t, StageContacted, changed.ToStage)
	})

	t.Run("skipping stages is allowed", func(t *testing.T) {
		r := newRecruit(t)
		require.NoError(t, r.Advance(StageOffered))
	})

	t.Run("cannot move backward", func(t *testing.T) {
		r := newRecruit(t)
		require.NoError(t, r.Advance(StageInterviewed))
		assert.Error(t, r.Advance(StageContacted))
		assert.Error(t, r.Advance(StageInterviewed), "same stage is not a move")
	})

	t.Run("cannot advance into terminal stages", func(t *testing.T) {
		r := newRecruit(t)
		assert.Error(t, r.Advance(StageHired))
		assert.Error(t, r.Advance(StageRejected))
	})
}

func TestRecruitHire(t *testing.T) {
	t.Run("hire requires an offer", func(t *testing.T) {
		r := newRecruit(t)
		assert.Error(t, r.Hire())

		require.NoError(t, r.Advance(StageOffered))
		r.ClearDomainEvents()
		require.NoError(t, r.SetContact("jamie@example.com", ""))

		require.NoError(t, r.Hire())
		assert.Equal(t, StageHired, r.Stage)

		var hired *RecruitHiredEvent
		for _, e := range r.GetDomainEvents() {
			if h, ok := e.(*RecruitHiredEvent); ok {
				hired = h
			}
		}
		require.NotNil(t, hired)
		assert.Equal(t, "jamie@example.com", hired.Email)
	})

	t.Run("closed pipeline rejects further moves", func(t *testing.T) {
		r := newRecruit(t)
		require.NoError(t, r.Advance(StageOffered))
		require.NoError(t, r.Hire())

		assert.Error(t, r.Advance(StageContacted))
		assert.Error(t, r.Reject("changed mind"))
		assert.Error(t, r.Hire())
	})
}

func TestRecruitReject(t *testing.T) {
	r := newRecruit(t)
	require.NoError(t, r.Advance(StageContacted))

	require.NoError(t, r.Reject("not interested"))
	assert.Equal(t, StageRejected, r.Stage)
	assert.Equal(t, "not interested", r.RejectReason)

	assert.Error(t, r.Reject("again"))
}

func TestInterviewLifecycle(t *testing.T) {
	teamID := uuid.New()
	future := time.Now().Add(48 * time.Hour)

	t.Run("schedules pending interview", func(t *testing.T) {
		iv, err := NewInterview(teamID, uuid.New(), uuid.New(), future, "Main office")

		require.NoError(t, err)
		assert.Equal(t, OutcomePending, iv.Outcome)

		events := iv.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*InterviewScheduledEvent)
		assert.True(t, ok)
	})

	t.Run("rejects past times", func(t *testing.T) {
		_, err := NewInterview(teamID, uuid.New(), uuid.New(), time.Now().Add(-time.Hour), "")
		assert.Error(t, err)
	})

	t.Run("complete records feedback once", func(t *testing.T) {
		iv, err := NewInterview(teamID, uuid.New(), uuid.New(), future, "")
		require.NoError(t, err)

		require.NoError(t, iv.Complete("strong candidate"))
		assert.Equal(t, OutcomeCompleted, iv.Outcome)
		assert.Equal(t, "strong candidate", iv.Feedback)

		assert.Error(t, iv.Complete("again"))
		assert.Error(t, iv.NoShow())
		assert.Error(t, iv.Cancel())
		assert.Error(t, iv.Reschedule(future.Add(time.Hour)))
	})

	t.Run("reschedule moves pending interview", func(t *testing.T) {
		iv, err := NewInterview(teamID, uuid.New(), uuid.New(), future, "")
		require.NoError(t, err)

		later := future.Add(24 * time.Hour)
		require.NoError(t, iv.Reschedule(later))
		assert.Equal(t, later, iv.ScheduledAt)

		assert.Error(t, iv.Reschedule(time.Now().Add(-time.Hour)))
	})
}
