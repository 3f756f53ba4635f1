package recruiting

import (
	"time"

	"github.com/google/uuid"

	"github.com/salespulse/backend/internal/domain/recruiting"
)

// CreateRecruitInput adds a prospect to the pipeline. A nil OwnerID
// makes the actor the owner.
type CreateRecruitInput struct {
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Source    string     `json:"source,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// UpdateRecruitInput edits contact details. Nil fields keep their
// current value; pipeline moves go through the stage operations.
type UpdateRecruitInput struct {
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Source *string `json:"source,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// ListRecruitsInput narrows the pipeline listing.
type ListRecruitsInput struct {
	OwnerID  *uuid.UUID `form:"owner_id"`
	Stage    string     `form:"stage"`
	Keyword  string     `form:"keyword"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ScheduleInterviewInput books an interview for a recruit. A nil
// InterviewerID makes the actor the interviewer.
type ScheduleInterviewInput struct {
	RecruitID     uuid.UUID  `json:"recruit_id" binding:"required"`
	InterviewerID *uuid.UUID `json:"interviewer_id,omitempty"`
	ScheduledAt   time.Time  `json:"scheduled_at" binding:"required"`
	Location      string     `json:"location,omitempty"`
}

// OutcomeInput records how a scheduled interview ended.
type OutcomeInput struct {
	Outcome  string `json:"outcome" binding:"required"`
	Feedback string `json:"feedback,omitempty"`
}

// RecruitDTO is the API representation of a pipeline prospect.
type RecruitDTO struct {
	ID             uuid.UUID `json:"id"`
	TeamID         uuid.UUID `json:"team_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Source         string    `json:"source,omitempty"`
	Stage          string    `json:"stage"`
	StageChangedAt time.Time `json:"stage_changed_at"`
	RejectReason   string    `json:"reject_reason,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InterviewDTO is the API representation of a scheduled interview.
type InterviewDTO struct {
	ID            uuid.UUID `json:"id"`
	TeamID        uuid.UUID `json:"team_id"`
	RecruitID     uuid.UUID `json:"recruit_id"`
	InterviewerID uuid.UUID `json:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Location      string    `json:"location,omitempty"`
	Outcome       string    `json:"outcome"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListRecruitsResult is a paged recruit listing.
type ListRecruitsResult struct {
	Recruits   []RecruitDTO `json:"recruits"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// PipelineDTO is the funnel view: every stage with its population,
// zero-filled so the client renders a stable funnel.
type PipelineDTO struct {
	Stages []StageCountDTO `json:"stages"`
	Total  int64           `json:"total"`
}

// StageCountDTO is one funnel stage's population.
type StageCountDTO struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

func toRecruitDTO(r *recruiting.Recruit) *RecruitDTO {
	return &RecruitDTO{
		ID:             r.ID,
		TeamID:         r.TeamID,
		OwnerID:        r.OwnerID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		FullName:       r.FullName(),
		Email:          r.Email,
		Phone:          r.Phone,
		Source:         r.Source,
		Stage:          string(r.Stage),
		StageChangedAt: r.StageChangedAt,
		RejectReason:   r.RejectReason,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toInterviewDTO(i *recruiting.Interview) *InterviewDTO {
	return &InterviewDTO{
		ID:            i.ID,
		TeamID:        i.TeamID,
		RecruitID:     i.RecruitID,
		InterviewerID: i.InterviewerID,
		ScheduledAt:   i.ScheduledAt,
		Location:      i.Location,
		Outcome:       string(i.Outcome),
		Feedback:      i.Feedback,
		CreatedAt:     i.CreatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
