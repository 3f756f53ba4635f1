package report

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Totals is the aggregated metric set over some range of activity
// records. Counts are int64 because team-wide sums can exceed a single
// user's plausible numbers.
type Totals struct {
	Contacts           int64           `gorm:"column:contacts"`
	Appointments       int64           `gorm:"column:appointments"`
	Presentations      int64           `gorm:"column:presentations"`
	Referrals          int64           `gorm:"column:referrals"`
	Sales              int64           `gorm:"column:sales"`
	Premium            decimal.Decimal `gorm:"column:premium"`
	RecruitingContacts int64           `gorm:"column:recruiting_contacts"`
	DaysActive         int64           `gorm:"column:days_active"`
}

// Add returns the element-wise sum of two totals.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Contacts:           t.Contacts + other.Contacts,
		Appointments:       t.Appointments + other.Appointments,
		Presentations:      t.Presentations + other.Presentations,
		Referrals:          t.Referrals + other.Referrals,
		Sales:              t.Sales + other.Sales,
		Premium:            t.Premium.Add(other.Premium),
		RecruitingContacts: t.RecruitingContacts + other.RecruitingContacts,
		DaysActive:         t.DaysActive + other.DaysActive,
	}
}

// MetricValue extracts a single metric as a decimal for ranking.
func (t Totals) MetricValue(metric LeaderboardMetric) decimal.Decimal {
	switch metric {
	case MetricPremium:
		return t.Premium
	case MetricContacts:
		return decimal.NewFromInt(t.Contacts)
	case MetricAppointments:
		return decimal.NewFromInt(t.Appointments)
	case MetricPresentations:
		return decimal.NewFromInt(t.Presentations)
	case MetricReferrals:
		return decimal.NewFromInt(t.Referrals)
	case MetricRecruitingContacts:
		return decimal.NewFromInt(t.RecruitingContacts)
	default:
		return decimal.NewFromInt(t.Sales)
	}
}

// UserSummary is one user's totals over a period, joined with the
// fields needed to render a report row.
type UserSummary struct {
	UserID      uuid.UUID     `gorm:"column:user_id"`
	Username    string        `gorm:"column:username"`
	DisplayName string        `gorm:"column:display_name"`
	Role        identity.Role `gorm:"column:role"`
	Totals
}

// TeamSummary is the team-wide rollup for a period.
type TeamSummary struct {
	TeamID      uuid.UUID
	Period      Period
	Totals      Totals
	ActiveUsers int64
}

// LeaderboardMetric selects which number a leaderboard ranks by.
type LeaderboardMetric string

const (
	MetricSales              LeaderboardMetric = "sales"
	MetricPremium            LeaderboardMetric = "premium"
	MetricContacts           LeaderboardMetric = "contacts"
	MetricAppointments       LeaderboardMetric = "appointments"
	MetricPresentations      LeaderboardMetric = "presentations"
	MetricReferrals          LeaderboardMetric = "referrals"
	MetricRecruitingContacts LeaderboardMetric = "recruiting_contacts"
)

// ParseLeaderboardMetric parses a leaderboard metric name.
func ParseLeaderboardMetric(s string) (LeaderboardMetric, error) {
	m := LeaderboardMetric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MetricSales, MetricPremium, MetricContacts, MetricAppointments,
		MetricPresentations, MetricReferrals, MetricRecruitingContacts:
		return m, nil
	}
	return "", shared.NewDomainError("INVALID_METRIC", "Unknown leaderboard metric: "+s)
}

// LeaderboardEntry is one ranked row. Ties share a rank; the next
// distinct value resumes at its positional rank.
type LeaderboardEntry struct {
	Rank        int
	UserID      uuid.UUID
	Username    string
	DisplayName string
	Role        identity.Role
	Value       decimal.Decimal
}

// Leaderboard is a ranked slice of users for one period and metric.
type Leaderboard struct {
	Period  Period
	Metric  LeaderboardMetric
	Entries []LeaderboardEntry
}

// Rank orders summaries by the metric, descending, and assigns
// competition ranking (1, 2, 2, 4).
func Rank(period Period, metric LeaderboardMetric, summaries []UserSummary, limit int) Leaderboard {
	entries := make([]LeaderboardEntry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, LeaderboardEntry{
			UserID:      s.UserID,
			Username:    s.Username,
			DisplayName: s.DisplayName,
			Role:        s.Role,
			Value:       s.Totals.MetricValue(metric),
		})
	}
	sortEntries(entries)

	for i := range entries {
		if i > 0 && entries[i].Value.Equal(entries[i-1].Value) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return Leaderboard{Period: period, Metric: metric, Entries: entries}
}

func sortEntries(entries []LeaderboardEntry) {
	// Descending by value; username tiebreak keeps output deterministic
	// across requests.
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Value.Equal(entries[j].Value) {
			return entries[i].Value.GreaterThan(entries[j].Value)
		}
		return entries[i].Username < entries[j].Username
	})
}

// TrendPoint is one bucket of a trend series.
type TrendPoint struct {
	Period Period
	Totals Totals
}

// DailyTotals is one calendar day's rollup as returned by the
// aggregation query; trend buckets are assembled from these.
type DailyTotals struct {
	Day time.Time `gorm:"column:activity_date"`
	Totals
}

// BuildTrend buckets per-day totals into the given periods, oldest
// first. Days outside every period are dropped.
func BuildTrend(periods []Period, days []DailyTotals) []TrendPoint {
	points := make([]TrendPoint, len(periods))
	for i, p := range periods {
		points[i] = TrendPoint{Period: p}
	}
	for _, d := range days {
		for i := range points {
			if points[i].Period.Contains(d.Day) {
				points[i].Totals = points[i].Totals.Add(d.Totals)
				break
			}
		}
	}
	return points
}
