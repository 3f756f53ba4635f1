package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows activity queries. UserIDs is the caller's visibility
// set; empty means no per-user restriction within the team.
type Filter struct {
	TeamID   uuid.UUID
	UserIDs  []uuid.UUID
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// NewFilter returns a filter with sane paging defaults.
func NewFilter(teamID uuid.UUID) Filter {
	return Filter{TeamID: teamID, Page: 1, PageSize: 31}
}

// Offset returns the paging offset.
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the paging limit, capped at 100.
func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return 31
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// Repository persists daily activity records.
type Repository interface {
	Create(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, teamID, id uuid.UUID) error
	FindByID(ctx context.Context, teamID, id uuid.UUID) (*Activity, error)
	// FindByUserAndDate returns the single record for one user on one
	// day, or shared.ErrNotFound.
	FindByUserAndDate(ctx context.Context, teamID, userID uuid.UUID, date time.Time) (*Activity, error)
	FindAll(ctx context.Context, filter Filter) ([]*Activity, int64, error)
}
