package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	MustChangePassword    bool
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Phone       string
	Role        identity.Role
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // Remaining lifetime of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ForceLogoutInput invalidates every outstanding token of one user
type ForceLogoutInput struct {
	TargetUserID uuid.UUID
}

// CreateUserInput contains the input for creating a user directly
// (as opposed to the invite flow)
type CreateUserInput struct {
	Username    string
	Password    string
	Email       string
	Phone       string
	DisplayName string
	Role        string
	ManagerID   *uuid.UUID
	HiredAt     *time.Time
}

// UpdateUserInput contains the input for updating a user's profile
type UpdateUserInput struct {
	ID          uuid.UUID
	Email       *string
	Phone       *string
	DisplayName *string
	HiredAt     *time.Time
	Notes       *string
}

// UserDTO represents user data returned to the interface layer
type UserDTO struct {
	ID                 uuid.UUID     `json:"id"`
	TeamID             uuid.UUID     `json:"team_id,omitempty"`
	Username           string        `json:"username"`
	Email              string        `json:"email,omitempty"`
	Phone              string        `json:"phone,omitempty"`
	DisplayName        string        `json:"display_name"`
	Role               identity.Role `json:"role"`
	ManagerID          *uuid.UUID    `json:"manager_id,omitempty"`
	Status             string        `json:"status"`
	HiredAt            time.Time     `json:"hired_at"`
	LastLoginAt        *time.Time    `json:"last_login_at,omitempty"`
	MustChangePassword bool          `json:"must_change_password"`
	Notes              string        `json:"notes,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// UserListResult represents a paginated user list
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// UserFilterInput narrows user listings
type UserFilterInput struct {
	Keyword   string
	Status    string
	Role      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateTeamInput contains the input for creating a team with its
// first state manager
type CreateTeamInput struct {
	Code            string
	Name            string
	ManagerUsername string
	ManagerPassword string
	ManagerEmail    string
}

// TeamConfigInput contains the input for updating team configuration.
// Nil fields keep their current value.
type TeamConfigInput struct {
	Timezone          *string
	Locale            *string
	WeeklyPremiumGoal *decimal.Decimal
	WeeklySalesGoal   *int
	NPAWindowDays     *int
	MaxUsers          *int
}

// TeamDTO represents team data returned to the interface layer
type TeamDTO struct {
	ID        uuid.UUID     `json:"id"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Config    TeamConfigDTO `json:"config"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TeamConfigDTO represents team configuration
type TeamConfigDTO struct {
	Timezone          string          `json:"timezone"`
	Locale            string          `json:"locale"`
	WeeklyPremiumGoal decimal.Decimal `json:"weekly_premium_goal"`
	WeeklySalesGoal   int             `json:"weekly_sales_goal"`
	NPAWindowDays     int             `json:"npa_window_days"`
	MaxUsers          int             `json:"max_users"`
}

// TeamStatsDTO represents member counts for a team
type TeamStatsDTO struct {
	TeamID           uuid.UUID `json:"team_id"`
	TotalUsers       int64     `json:"total_users"`
	ActiveUsers      int64     `json:"active_users"`
	PendingUsers     int64     `json:"pending_users"`
	LockedUsers      int64     `json:"locked_users"`
	DeactivatedUsers int64     `json:"deactivated_users"`
	MaxUsers         int       `json:"max_users"`
}

// TeamListResult represents a paginated team list
type TeamListResult struct {
	Teams      []TeamDTO `json:"teams"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// CreateInviteInput contains the input for inviting a new member
type CreateInviteInput struct {
	Email     string
	Role      string
	ManagerID *uuid.UUID
}

// AcceptInviteInput contains the input for redeeming an invite code
type AcceptInviteInput struct {
	Code        string
	Username    string
	Password    string
	DisplayName string
	Phone       string
}

// InviteDTO represents invite data returned to the interface layer
type InviteDTO struct {
	ID         uuid.UUID     `json:"id"`
	TeamID     uuid.UUID     `json:"team_id"`
	Email      string        `json:"email"`
	Role       identity.Role `json:"role"`
	ManagerID  *uuid.UUID    `json:"manager_id,omitempty"`
	Code       string        `json:"code"`
	ExpiresAt  time.Time     `json:"expires_at"`
	AcceptedAt *time.Time    `json:"accepted_at,omitempty"`
	RevokedAt  *time.Time    `json:"revoked_at,omitempty"`
	Pending    bool          `json:"pending"`
	CreatedAt  time.Time     `json:"created_at"`
}

// OrgNode is one user in the rendered reporting tree
type OrgNode struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
	Reports     []*OrgNode    `json:"reports,omitempty"`
}

func toUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:                 u.ID,
		TeamID:             u.TeamID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		DisplayName:        u.GetDisplayNameOrUsername(),
		Role:               u.Role,
		ManagerID:          u.ManagerID,
		Status:             string(u.Status),
		HiredAt:            u.HiredAt,
		LastLoginAt:        u.LastLoginAt,
		MustChangePassword: u.MustChangePassword,
		Notes:              u.Notes,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toTeamDTO(t *identity.Team) *TeamDTO {
	return &TeamDTO{
		ID:     t.ID,
		Code:   t.Code,
		Name:   t.Name,
		Status: string(t.Status),
		Config: TeamConfigDTO{
			Timezone:          t.Config.Timezone,
			Locale:            t.Config.Locale,
			WeeklyPremiumGoal: t.Config.WeeklyPremiumGoal,
			WeeklySalesGoal:   t.Config.WeeklySalesGoal,
			NPAWindowDays:     t.Config.NPAWindowDays,
			MaxUsers:          t.Config.MaxUsers,
		},
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toInviteDTO(i *identity.Invite) *InviteDTO {
	return &InviteDTO{
		ID:         i.ID,
		TeamID:     i.TeamID,
		Email:      i.Email,
		Role:       i.Role,
		ManagerID:  i.ManagerID,
		Code:       i.Code,
		ExpiresAt:  i.ExpiresAt,
		AcceptedAt: i.AcceptedAt,
		RevokedAt:  i.RevokedAt,
		Pending:    i.IsPending(),
		CreatedAt:  i.CreatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
