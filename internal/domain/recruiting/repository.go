package recruiting

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecruitFilter narrows recruit queries. OwnerIDs is the caller's
// visibility set; empty means the whole team.
type RecruitFilter struct {
	TeamID   uuid.UUID
	OwnerIDs []uuid.UUID
	Stage    Stage
	Keyword  string
	Page     int
	PageSize int
}

// NewRecruitFilter returns a filter with paging defaults.
func NewRecruitFilter(teamID uuid.UUID) RecruitFilter {
	return RecruitFilter{TeamID: teamID, Page: 1, PageSize: 20}
}

// Offset returns the paging offset.
func (f RecruitFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the paging limit, capped at 100.
func (f RecruitFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// StageCount is one pipeline stage's population, for funnel views.
type StageCount struct {
	Stage Stage `gorm:"column:stage"`
	Count int64 `gorm:"column:count"`
}

// RecruitRepository persists pipeline prospects.
type RecruitRepository interface {
	Create(ctx context.Context, r *Recruit) error
	Update(ctx context.Context, r *Recruit) error
	Delete(ctx context.Context, teamID, id uuid.UUID) error
	FindByID(ctx context.Context, teamID, id uuid.UUID) (*Recruit, error)
	FindAll(ctx context.Context, filter RecruitFilter) ([]*Recruit, int64, error)
	// CountByStage returns the funnel for the visibility set.
	CountByStage(ctx context.Context, teamID uuid.UUID, ownerIDs []uuid.UUID) ([]StageCount, error)
}

// InterviewRepository persists scheduled interviews.
type InterviewRepository interface {
	Create(ctx context.Context, i *Interview) error
	Update(ctx context.Context, i *Interview) error
	FindByID(ctx context.Context, teamID, id uuid.UUID) (*Interview, error)
	FindByRecruit(ctx context.Context, teamID, recruitID uuid.UUID) ([]*Interview, error)
	// FindUpcoming lists pending interviews for an interviewer from
	// the given instant onward.
	FindUpcoming(ctx context.Context, teamID, interviewerID uuid.UUID, from time.Time) ([]*Interview, error)
}
