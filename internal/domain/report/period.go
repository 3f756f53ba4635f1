package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/salespulse/backend/internal/domain/shared"
)

// PeriodType is the reporting granularity.
type PeriodType string

const (
	PeriodDay     PeriodType = "day"
	PeriodWeek    PeriodType = "week" // ISO week, Monday through Sunday
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// ParsePeriodType parses a period type string.
func ParsePeriodType(s string) (PeriodType, error) {
	pt := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	switch pt {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return pt, nil
	}
	return "", shared.NewDomainError("INVALID_PERIOD", "Unknown period type: "+s)
}

// Period is a closed date range of one reporting bucket. Start and End
// are calendar days in canonical form (midnight UTC), both inclusive.
type Period struct {
	Type  PeriodType
	Start time.Time
	End   time.Time
}

// PeriodContaining returns the period of the given type that contains
// the instant t, with day boundaries taken in loc.
func PeriodContaining(pt PeriodType, t time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return periodOfDay(pt, day)
}

// periodOfDay computes the bucket containing a canonical day.
func periodOfDay(pt PeriodType, day time.Time) (Period, error) {
	var start, end time.Time
	switch pt {
	case PeriodDay:
		start, end = day, day
	case PeriodWeek:
		// Monday = 0 offset
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 6)
	case PeriodMonth:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case PeriodQuarter:
		qMonth := time.Month((int(day.Month())-1)/3*3 + 1)
		start = time.Date(day.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
	case PeriodYear:
		start = time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	default:
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Unknown period type: "+string(pt))
	}
	return Period{Type: pt, Start: start, End: end}, nil
}

// Next returns the period immediately after p.
func (p Period) Next() Period {
	next, _ := periodOfDay(p.Type, p.End.AddDate(0, 0, 1))
	return next
}

// Previous returns the period immediately before p.
func (p Period) Previous() Period {
	prev, _ := periodOfDay(p.Type, p.Start.AddDate(0, 0, -1))
	return prev
}

// Contains reports whether the canonical day falls inside the period.
func (p Period) Contains(day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Label renders a compact human-readable bucket name, e.g. 2026-08-29,
// 2026-W35, 2026-08, 2026-Q3, 2026.
func (p Period) Label() string {
	switch p.Type {
	case PeriodDay:
		return p.Start.Format("2006-01-02")
	case PeriodWeek:
		year, week := p.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonth:
		return p.Start.Format("2006-01")
	case PeriodQuarter:
		return fmt.Sprintf("%d-Q%d", p.Start.Year(), (int(p.Start.Month())-1)/3+1)
	case PeriodYear:
		return fmt.Sprintf("%d", p.Start.Year())
	}
	return p.Start.Format("2006-01-02")
}

// LastPeriods returns the n periods ending with (and including) p,
// oldest first. Used for trend series.
func LastPeriods(p Period, n int) []Period {
	if n < 1 {
		n = 1
	}
	out := make([]Period, n)
	cur := p
	for i := n - 1; i >= 0; i-- {
		out[i] = cur
		cur = cur.Previous()
	}
	return out
}
