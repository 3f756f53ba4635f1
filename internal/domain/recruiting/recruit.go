package recruiting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/shared"
)

// Stage is a recruit's position in the hiring pipeline.
type Stage string

const (
	StageProspect           Stage = "prospect"
	StageContacted          Stage = "contacted"
	StageInterviewScheduled Stage = "interview_scheduled"
	StageInterviewed        Stage = "interviewed"
	StageOffered            Stage = "offered"
	StageHired              Stage = "hired"
	StageRejected           Stage = "rejected"
)

// stageOrder gives the forward direction of the pipeline. Terminal
// stages sit outside the ordering.
var stageOrder = map[Stage]int{
	StageProspect:           1,
	StageContacted:          2,
	StageInterviewScheduled: 3,
	StageInterviewed:        4,
	StageOffered:            5,
}

// ParseStage parses a pipeline stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StageProspect, StageContacted, StageInterviewScheduled,
		StageInterviewed, StageOffered, StageHired, StageRejected:
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STAGE", "Unknown pipeline stage: "+s)
}

// IsTerminal reports whether the stage ends the pipeline.
func (s Stage) IsTerminal() bool {
	return s == StageHired || s == StageRejected
}

// Recruit is a hiring prospect owned by the team member recruiting
// them. The pipeline only moves forward; rejection is allowed from any
// open stage, hiring only from an offer.
type Recruit struct {
	shared.TeamAggregateRoot
	OwnerID        uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Source         string
	Stage          Stage
	StageChangedAt time.Time
	RejectReason   string
	Notes          string
}

// NewRecruit creates a prospect owned by ownerID.
func NewRecruit(teamID, ownerID uuid.UUID, firstName, lastName string) (*Recruit, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Recruit must belong to a team")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("OWNER_REQUIRED", "Recruit must have an owner")
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || len(firstName) > 100 || len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "First name is required; names cannot exceed 100 characters")
	}

	r := &Recruit{
		TeamAggregateRoot: shared.NewTeamAggregateRootWithCreator(teamID, ownerID),
		OwnerID:           ownerID,
		FirstName:         firstName,
		LastName:          lastName,
		Stage:             StageProspect,
		StageChangedAt:    time.Now(),
	}
	r.AddDomainEvent(NewRecruitCreatedEvent(r))
	return r, nil
}

// SetContact sets optional contact details.
func (r *Recruit) SetContact(email, phone string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && (len(email) > 200 || !strings.Contains(email, "@")) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	r.Email = email
	r.Phone = strings.TrimSpace(phone)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// SetSource records where the recruit came from (referral, event, ad).
func (r *Recruit) SetSource(source string) error {
	if len(source) > 100 {
		return shared.NewDomainError("INVALID_SOURCE", "Source cannot exceed 100 characters")
	}
	r.Source = strings.TrimSpace(source)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// SetNotes replaces the free-form notes.
func (r *Recruit) SetNotes(notes string) error {
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}
	r.Notes = strings.TrimSpace(notes)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// FullName renders the recruit's display name.
func (r *Recruit) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// Advance moves the recruit forward to an open stage. Skipping stages
// is allowed; moving backward or into a terminal stage is not.
func (r *Recruit) Advance(to Stage) error {
	if r.Stage.IsTerminal() {
		return shared.NewDomainError("PIPELINE_CLOSED", "Recruit pipeline is already closed")
	}
	toOrder, ok := stageOrder[to]
	if !ok {
		return shared.NewDomainError("INVALID_STAGE", "Cannot advance into stage "+string(to))
	}
	if toOrder <= stageOrder[r.Stage] {
		return shared.NewDomainError("INVALID_TRANSITION", "Pipeline only moves forward")
	}
	r.changeStage(to)
	return nil
}

// Reject closes the pipeline from any open stage.
func (r *Recruit) Reject(reason string) error {
	if r.Stage.IsTerminal() {
		return shared.NewDomainError("PIPELINE_CLOSED", "Recruit pipeline is already closed")
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}
	r.RejectReason = strings.TrimSpace(reason)
	r.changeStage(StageRejected)
	return nil
}

// Hire closes the pipeline from the offered stage and announces the
// hire so an account invite can be issued.
func (r *Recruit) Hire() error {
	if r.Stage != StageOffered {
		return shared.NewDomainError("INVALID_TRANSITION", "Only offered recruits can be hired")
	}
	r.changeStage(StageHired)
	r.AddDomainEvent(NewRecruitHiredEvent(r))
	return nil
}

func (r *Recruit) changeStage(to Stage) {
	from := r.Stage
	r.Stage = to
	r.StageChangedAt = time.Now()
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewRecruitStageChangedEvent(r, from, to))
}
