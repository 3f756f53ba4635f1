package recruiting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salespulse/backend/internal/domain/hierarchy"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
)

// MockRecruitRepository is a mock implementation of recruiting.RecruitRepository
type MockRecruitRepository struct {
	mock.Mock
}

func (m *MockRecruitRepository) Create(ctx context.Context, r *recruiting.Recruit) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecruitRepository) Update(ctx context.Context, r *recruiting.Recruit) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecruitRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockRecruitRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*recruiting.Recruit, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recruiting.Recruit), args.Error(1)
}

func (m *MockRecruitRepository) FindAll(ctx context.Context, filter recruiting.RecruitFilter) ([]*recruiting.Recruit, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*recruiting.Recruit), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecruitRepository) CountByStage(ctx context.Context, teamID uuid.UUID, ownerIDs []uuid.UUID) ([]recruiting.StageCount, error) {
	args := m.Called(ctx, teamID, ownerIDs)
	return args.Get(0).([]recruiting.StageCount), args.Error(1)
}

var _ recruiting.RecruitRepository = (*MockRecruitRepository)(nil)

// MockInterviewRepository is a mock implementation of recruiting.InterviewRepository
type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(ctx context.Context, i *recruiting.Interview) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInterviewRepository) Update(ctx context.Context, i *recruiting.Interview) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInterviewRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*recruiting.Interview, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recruiting.Interview), args.Error(1)
}

func (m *MockInterviewRepository) FindByRecruit(ctx context.Context, teamID, recruitID uuid.UUID) ([]*recruiting.Interview, error) {
	args := m.Called(ctx, teamID, recruitID)
	return args.Get(0).([]*recruiting.Interview), args.Error(1)
}

func (m *MockInterviewRepository) FindUpcoming(ctx context.Context, teamID, interviewerID uuid.UUID, from time.Time) ([]*recruiting.Interview, error) {
	args := m.Called(ctx, teamID, interviewerID, from)
	return args.Get(0).([]*recruiting.Interview), args.Error(1)
}

var _ recruiting.InterviewRepository = (*MockInterviewRepository)(nil)

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

// MockEdgeRepository is a mock implementation of hierarchy.EdgeRepository
type MockEdgeRepository struct {
	mock.Mock
}

func (m *MockEdgeRepository) FindTeamEdges(ctx context.Context, teamID uuid.UUID) ([]hierarchy.Edge, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]hierarchy.Edge), args.Error(1)
}

var _ hierarchy.EdgeRepository = (*MockEdgeRepository)(nil)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var _ shared.EventPublisher = (*MockEventPublisher)(nil)

func relaxedPublisher() *MockEventPublisher {
	bus := new(MockEventPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return bus
}

func newActiveTeamMember(teamID uuid.UUID, username string, role identity.Role) *identity.User {
	user, err := identity.NewActiveUser(teamID, username, "Password1", role)
	if err != nil {
		panic(err)
	}
	return user
}
