package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/report"
)

// PeriodInput selects a reporting bucket. Date picks the bucket
// containing it; a zero Date means now. TeamID overrides the actor's
// team and is honored for super admins only.
type PeriodInput struct {
	PeriodType string     `json:"period_type"`
	Date       time.Time  `json:"date"`
	TeamID     *uuid.UUID `json:"team_id,omitempty"`
}

// LeaderboardInput selects a leaderboard period, metric, and size
type LeaderboardInput struct {
	PeriodInput
	Metric string `json:"metric"`
	Limit  int    `json:"limit"`
}

// TrendInput selects a trend series: the last Buckets periods ending
// with the one containing Date. UserID narrows the series to one user.
type TrendInput struct {
	PeriodInput
	Buckets int        `json:"buckets"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
}

// PeriodDTO represents one reporting bucket
type PeriodDTO struct {
	Type  string    `json:"type"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TotalsDTO represents aggregated metrics
type TotalsDTO struct {
	Contacts           int64           `json:"contacts"`
	Appointments       int64           `json:"appointments"`
	Presentations      int64           `json:"presentations"`
	Referrals          int64           `json:"referrals"`
	Sales              int64           `json:"sales"`
	Premium            decimal.Decimal `json:"premium"`
	RecruitingContacts int64           `json:"recruiting_contacts"`
	DaysActive         int64           `json:"days_active"`
}

// UserSummaryDTO is one user's totals over a period. CloseRate is
// sales over presentations, as a percentage rounded to one decimal.
type UserSummaryDTO struct {
	UserID      uuid.UUID       `json:"user_id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        identity.Role   `json:"role"`
	Totals      TotalsDTO       `json:"totals"`
	CloseRate   decimal.Decimal `json:"close_rate"`
}

// TeamSummaryDTO is the rollup over the caller's visibility set with
// its per-member breakdown
type TeamSummaryDTO struct {
	TeamID      uuid.UUID        `json:"team_id"`
	Period      PeriodDTO        `json:"period"`
	Totals      TotalsDTO        `json:"totals"`
	ActiveUsers int64            `json:"active_users"`
	Members     []UserSummaryDTO `json:"members"`
}

// LeaderboardEntryDTO is one ranked leaderboard row
type LeaderboardEntryDTO struct {
	Rank        int             `json:"rank"`
	UserID      uuid.UUID       `json:"user_id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        identity.Role   `json:"role"`
	Value       decimal.Decimal `json:"value"`
}

// LeaderboardDTO is a ranked team leaderboard for one period
type LeaderboardDTO struct {
	Period  PeriodDTO             `json:"period"`
	Metric  string                `json:"metric"`
	Entries []LeaderboardEntryDTO `json:"entries"`
}

// TrendPointDTO is one bucket of a trend series
type TrendPointDTO struct {
	Period PeriodDTO `json:"period"`
	Totals TotalsDTO `json:"totals"`
}

// NPAEntryDTO is one new producer's standing
type NPAEntryDTO struct {
	UserID        uuid.UUID     `json:"user_id"`
	Username      string        `json:"username"`
	DisplayName   string        `json:"display_name"`
	Role          identity.Role `json:"role"`
	HiredAt       time.Time     `json:"hired_at"`
	DaysInWindow  int           `json:"days_in_window"`
	DaysRemaining int           `json:"days_remaining"`
	Totals        TotalsDTO     `json:"totals"`
}

// NPAReportDTO tracks producers still inside the hire window
type NPAReportDTO struct {
	WindowDays int           `json:"window_days"`
	AsOf       time.Time     `json:"as_of"`
	Entries    []NPAEntryDTO `json:"entries"`
}

// SNAUserEntryDTO is one user's weekly standing against the team goals
type SNAUserEntryDTO struct {
	UserID            uuid.UUID       `json:"user_id"`
	Username          string          `json:"username"`
	DisplayName       string          `json:"display_name"`
	Premium           decimal.Decimal `json:"premium"`
	PremiumAttainment decimal.Decimal `json:"premium_attainment"`
	Sales             int64           `json:"sales"`
	SalesAttainment   decimal.Decimal `json:"sales_attainment"`
}

// SNAStatusDTO is the weekly standing against team goals, with the
// per-user breakdown
type SNAStatusDTO struct {
	Period            PeriodDTO         `json:"period"`
	Premium           decimal.Decimal   `json:"premium"`
	PremiumGoal       decimal.Decimal   `json:"premium_goal"`
	PremiumAttainment decimal.Decimal   `json:"premium_attainment"`
	Sales             int64             `json:"sales"`
	SalesGoal         int               `json:"sales_goal"`
	SalesAttainment   decimal.Decimal   `json:"sales_attainment"`
	OnTrack           bool              `json:"on_track"`
	Users             []SNAUserEntryDTO `json:"users"`
}

func toPeriodDTO(p report.Period) PeriodDTO {
	return PeriodDTO{
		Type:  string(p.Type),
		Label: p.Label(),
		Start: p.Start,
		End:   p.End,
	}
}

func toTotalsDTO(t report.Totals) TotalsDTO {
	return TotalsDTO{
		Contacts:           t.Contacts,
		Appointments:       t.Appointments,
		Presentations:      t.Presentations,
		Referrals:          t.Referrals,
		Sales:              t.Sales,
		Premium:            t.Premium,
		RecruitingContacts: t.RecruitingContacts,
		DaysActive:         t.DaysActive,
	}
}

func toUserSummaryDTO(s report.UserSummary) UserSummaryDTO {
	return UserSummaryDTO{
		UserID:      s.UserID,
		Username:    s.Username,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		Totals:      toTotalsDTO(s.Totals),
		CloseRate:   closeRate(s.Totals),
	}
}

// closeRate is sales/presentations as a percentage. No presentations
// means no rate rather than a division error.
func closeRate(t report.Totals) decimal.Decimal {
	if t.Presentations == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.Sales).
		Div(decimal.NewFromInt(t.Presentations)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
