package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username (usernames are global,
	// they are the login identifier)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users matching the filter with pagination
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// FindByIDs loads a batch of users by ID, team-filtered
	FindByIDs(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) ([]*User, error)

	// FindDirectReports returns users whose manager is the given user
	FindDirectReports(ctx context.Context, teamID, managerID uuid.UUID) ([]*User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByTeam returns the number of users in a team
	CountByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)

	// CountByTeamGroupedByStatus returns per-status user counts for a team
	CountByTeamGroupedByStatus(ctx context.Context, teamID uuid.UUID) (map[UserStatus]int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	// TeamID scopes the query; uuid.Nil means all teams (super_admin only)
	TeamID uuid.UUID

	// UserIDs restricts results to a visibility set; nil means unrestricted
	UserIDs []uuid.UUID

	// Keyword searches username, email, or display name
	Keyword string

	Status *UserStatus
	Role   *Role

	Page     int
	PageSize int

	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewUserFilter creates a new UserFilter with default values
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the query offset
func (f UserFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the query limit
func (f UserFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// TeamRepository defines the interface for team persistence
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)
	FindByCode(ctx context.Context, code string) (*Team, error)
	FindAll(ctx context.Context, filter TeamFilter) ([]*Team, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// TeamFilter contains filter options for querying teams
type TeamFilter struct {
	Keyword   string
	Status    *TeamStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// InviteRepository defines the interface for invite persistence
type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) error
	Update(ctx context.Context, invite *Invite) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invite, error)
	FindByCode(ctx context.Context, code string) (*Invite, error)
	FindByTeam(ctx context.Context, teamID uuid.UUID, pendingOnly bool) ([]*Invite, error)
	HasPendingForEmail(ctx context.Context, teamID uuid.UUID, email string) (bool, error)
}
