package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salespulse/backend/internal/domain/hierarchy"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/report"
)

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) UserTotals(ctx context.Context, q report.Query) ([]report.UserSummary, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]report.UserSummary), args.Error(1)
}

func (m *MockReportRepository) TeamTotals(ctx context.Context, q report.Query) (report.Totals, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(report.Totals), args.Error(1)
}

func (m *MockReportRepository) DailyTotals(ctx context.Context, q report.Query) ([]report.DailyTotals, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]report.DailyTotals), args.Error(1)
}

func (m *MockReportRepository) TotalsByUserSinceHire(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]report.Totals, error) {
	args := m.Called(ctx, teamID, userIDs)
	return args.Get(0).(map[uuid.UUID]report.Totals), args.Error(1)
}

func (m *MockReportRepository) ActiveUserCount(ctx context.Context, q report.Query) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

var _ report.Repository = (*MockReportRepository)(nil)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, teamID, ids)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindDirectReports(ctx context.Context, teamID, managerID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, teamID, managerID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByTeamGroupedByStatus(ctx context.Context, teamID uuid.UUID) (map[identity.UserStatus]int64, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[identity.UserStatus]int64), args.Error(1)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

// MockTeamRepository is a mock implementation of identity.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *identity.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *identity.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByCode(ctx context.Context, code string) (*identity.Team, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Team), args.Error(1)
}

func (m *MockTeamRepository) FindAll(ctx context.Context, filter identity.TeamFilter) ([]*identity.Team, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Team), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeamRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ identity.TeamRepository = (*MockTeamRepository)(nil)

// MockEdgeRepository is a mock implementation of hierarchy.EdgeRepository
type MockEdgeRepository struct {
	mock.Mock
}

func (m *MockEdgeRepository) FindTeamEdges(ctx context.Context, teamID uuid.UUID) ([]hierarchy.Edge, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]hierarchy.Edge), args.Error(1)
}

var _ hierarchy.EdgeRepository = (*MockEdgeRepository)(nil)

func newActiveTeamMember(teamID uuid.UUID, username string, role identity.Role) *identity.User {
	user, err := identity.NewActiveUser(teamID, username, "Password1", role)
	if err != nil {
		panic(err)
	}
	return user
}
