package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// NPAEntry is one new producer's standing: their production since hire
// and how long they remain in the new-producer window.
type NPAEntry struct {
	UserID        uuid.UUID
	Username      string
	DisplayName   string
	Role          identity.Role
	HiredAt       time.Time
	DaysInWindow  int
	DaysRemaining int
	Totals        Totals
}

// NPAReport tracks every producer still inside the team's hire window.
type NPAReport struct {
	WindowDays int
	AsOf       time.Time
	Entries    []NPAEntry
}

// BuildNPAReport filters users down to those still inside the window
// and joins them with their since-hire totals. Entries are ordered
// newest hire first.
func BuildNPAReport(users []*identity.User, totals map[uuid.UUID]Totals, at time.Time, windowDays int) NPAReport {
	if windowDays <= 0 {
		windowDays = identity.DefaultNPAWindowDays
	}
	entries := make([]NPAEntry, 0)
	for _, u := range users {
		if !u.IsNewProducer(at, windowDays) {
			continue
		}
		days := int(at.Sub(u.HiredAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		entries = append(entries, NPAEntry{
			UserID:        u.ID,
			Username:      u.Username,
			DisplayName:   u.GetDisplayNameOrUsername(),
			Role:          u.Role,
			HiredAt:       u.HiredAt,
			DaysInWindow:  days,
			DaysRemaining: windowDays - days,
			Totals:        totals[u.ID],
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].HiredAt.After(entries[j].HiredAt)
	})
	return NPAReport{WindowDays: windowDays, AsOf: at, Entries: entries}
}

// SNAStatus is the team's standing against its weekly goals for one
// week. Attainment is the fraction of goal reached, as a percentage.
type SNAStatus struct {
	Period            Period
	Premium           decimal.Decimal
	PremiumGoal       decimal.Decimal
	PremiumAttainment decimal.Decimal
	Sales             int64
	SalesGoal         int
	SalesAttainment   decimal.Decimal
	OnTrack           bool
}

// BuildSNAStatus compares one week's totals against the team's goals.
// A zero goal counts as met.
func BuildSNAStatus(week Period, cfg identity.TeamConfig, totals Totals) SNAStatus {
	s := SNAStatus{
		Period:      week,
		Premium:     totals.Premium,
		PremiumGoal: cfg.WeeklyPremiumGoal,
		Sales:       totals.Sales,
		SalesGoal:   cfg.WeeklySalesGoal,
	}

	hundred := decimal.NewFromInt(100)
	premiumMet := true
	if cfg.WeeklyPremiumGoal.IsPositive() {
		s.PremiumAttainment = totals.Premium.Div(cfg.WeeklyPremiumGoal).Mul(hundred).Round(1)
		premiumMet = totals.Premium.GreaterThanOrEqual(cfg.WeeklyPremiumGoal)
	}
	salesMet := true
	if cfg.WeeklySalesGoal > 0 {
		goal := decimal.NewFromInt(int64(cfg.WeeklySalesGoal))
		s.SalesAttainment = decimal.NewFromInt(totals.Sales).Div(goal).Mul(hundred).Round(1)
		salesMet = totals.Sales >= int64(cfg.WeeklySalesGoal)
	}
	s.OnTrack = premiumMet && salesMet
	return s
}
