package featureflag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
)

// MockFlagRepository is a mock implementation of featureflag.Repository
type MockFlagRepository struct {
	mock.Mock
}

func (m *MockFlagRepository) Save(ctx context.Context, flag *featureflag.Flag) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

func (m *MockFlagRepository) FindByTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*featureflag.Flag), args.Error(1)
}

func (m *MockFlagRepository) FindByTeamAndFeature(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature) (*featureflag.Flag, error) {
	args := m.Called(ctx, teamID, feature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*featureflag.Flag), args.Error(1)
}

func (m *MockFlagRepository) Delete(ctx context.Context, teamID uuid.UUID, feature featureflag.Feature) error {
	args := m.Called(ctx, teamID, feature)
	return args.Error(0)
}

var _ featureflag.Repository = (*MockFlagRepository)(nil)

// MockFlagCache is a mock implementation of featureflag.FlagCache
type MockFlagCache struct {
	mock.Mock
}

func (m *MockFlagCache) GetTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, bool, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*featureflag.Flag), args.Bool(1), args.Error(2)
}

func (m *MockFlagCache) SetTeam(ctx context.Context, teamID uuid.UUID, flags []*featureflag.Flag, ttl time.Duration) error {
	args := m.Called(ctx, teamID, flags, ttl)
	return args.Error(0)
}

func (m *MockFlagCache) InvalidateTeam(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

var _ featureflag.FlagCache = (*MockFlagCache)(nil)

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

func newActiveTeamMember(teamID uuid.UUID, username string, role identity.Role) *identity.User {
	user, err := identity.NewActiveUser(teamID, username, "Password1", role)
	if err != nil {
		panic(err)
	}
	return user
}

// passiveCache never hits and accepts every write.
func passiveCache() *MockFlagCache {
	cache := new(MockFlagCache)
	cache.On("GetTeam", mock.Anything, mock.Anything).Return(nil, false, nil).Maybe()
	cache.On("SetTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("InvalidateTeam", mock.Anything, mock.Anything).Return(nil).Maybe()
	return cache
}
