package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Query scopes an aggregation to a team, a visibility set, and a date
// range. Empty UserIDs means every user in the team.
type Query struct {
	TeamID  uuid.UUID
	UserIDs []uuid.UUID
	From    time.Time
	To      time.Time
}

// Repository runs aggregation queries over activity records. All sums
// are computed in SQL; the domain layer only shapes the results.
type Repository interface {
	// UserTotals returns per-user totals joined with user fields,
	// one row per user that has at least one record in range.
	UserTotals(ctx context.Context, q Query) ([]UserSummary, error)
	// TeamTotals returns the single rollup row for the query scope.
	TeamTotals(ctx context.Context, q Query) (Totals, error)
	// DailyTotals returns one row per calendar day in range, for
	// trend bucketing.
	DailyTotals(ctx context.Context, q Query) ([]DailyTotals, error)
	// TotalsByUserSinceHire returns each listed user's totals from
	// their hire date onward, keyed by user ID. Used by the NPA
	// tracker.
	TotalsByUserSinceHire(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]Totals, error)
	// ActiveUserCount counts distinct users with records in range.
	ActiveUserCount(ctx context.Context, q Query) (int64, error)
}
