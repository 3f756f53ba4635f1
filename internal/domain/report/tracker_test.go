package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProducer(t *testing.T, teamID uuid.UUID, username string, hiredDaysAgo int, at time.Time) *identity.User {
	t.Helper()
	u, err := identity.NewActiveUser(teamID, username, "Password123", identity.RoleAgent)
	require.NoError(t, err)
	require.NoError(t, u.SetHiredAt(at.AddDate(0, 0, -hiredDaysAgo)))
	return u
}

func TestBuildNPAReport(t *testing.T) {
	teamID := uuid.New()
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	fresh := newProducer(t, teamID, "fresh", 10, at)
	mid := newProducer(t, teamID, "mid", 60, at)
	veteran := newProducer(t, teamID, "veteran", 200, at)

	totals := map[uuid.UUID]Totals{
		fresh.ID: {Sales: 2, Premium: decimal.NewFromInt(800)},
		mid.ID:   {Sales: 9, Premium: decimal.NewFromInt(4000)},
	}

	report := BuildNPAReport([]*identity.User{veteran, mid, fresh}, totals, at, 90)

	assert.Equal(t, 90, report.WindowDays)
	require.Len(t, report.Entries, 2, "veteran is outside the window")

	// Newest hire first
	assert.Equal(t, "fresh", report.Entries[0].Username)
	assert.Equal(t, 10, report.Entries[0].DaysInWindow)
	assert.Equal(t, 80, report.Entries[0].DaysRemaining)
	assert.Equal(t, int64(2), report.Entries[0].Totals.Sales)

	assert.Equal(t, "mid", report.Entries[1].Username)
	assert.Equal(t, int64(9), report.Entries[1].Totals.Sales)

	t.Run("user without totals gets zero row", func(t *testing.T) {
		report := BuildNPAReport([]*identity.User{fresh}, nil, at, 90)
		require.Len(t, report.Entries, 1)
		assert.True(t, report.Entries[0].Totals.Premium.IsZero())
	})

	t.Run("non-positive window falls back to default", func(t *testing.T) {
		report := BuildNPAReport([]*identity.User{fresh}, totals, at, 0)
		assert.Equal(t, identity.DefaultNPAWindowDays, report.WindowDays)
	})
}

func TestBuildSNAStatus(t *testing.T) {
	week, err := PeriodContaining(PeriodWeek, day(2026, 8, 29), time.UTC)
	require.NoError(t, err)

	cfg := identity.DefaultTeamConfig()
	cfg.WeeklyPremiumGoal = decimal.NewFromInt(5000)
	cfg.WeeklySalesGoal = 10

	t.Run("on track when both goals met", func(t *testing.T) {
		status := BuildSNAStatus(week, cfg, Totals{
			Sales:   12,
			Premium: decimal.NewFromInt(6000),
		})

		assert.True(t, status.OnTrack)
		assert.True(t, status.PremiumAttainment.Equal(decimal.NewFromInt(120)))
		assert.True(t, status.SalesAttainment.Equal(decimal.NewFromInt(120)))
	})

	t.Run("behind on one goal", func(t *testing.T) {
		status := BuildSNAStatus(week, cfg, Totals{
			Sales:   12,
			Premium: decimal.NewFromInt(2500),
		})

		assert.False(t, status.OnTrack)
		assert.True(t, status.PremiumAttainment.Equal(decimal.NewFromInt(50)))
	})

	t.Run("zero goals count as met", func(t *testing.T) {
		status := BuildSNAStatus(week, identity.DefaultTeamConfig(), Totals{})
		assert.True(t, status.OnTrack)
		assert.True(t, status.PremiumAttainment.IsZero())
	})
}
