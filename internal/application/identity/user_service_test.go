package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/hierarchy"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

type userServiceFixture struct {
	svc      *UserService
	userRepo *MockUserRepository
	teamRepo *MockTeamRepository
	edgeRepo *MockEdgeRepository
	team     *identity.Team
	manager  *identity.User // state manager, team scope
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)
	edgeRepo := new(MockEdgeRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	manager := newActiveTeamMember(team.ID, "manager", identity.RoleStateManager)

	visibility := NewVisibilityService(userRepo, edgeRepo, zap.NewNop())
	svc := NewUserService(userRepo, teamRepo, visibility, relaxedPublisher(), zap.NewNop())

	return &userServiceFixture{
		svc:      svc,
		userRepo: userRepo,
		teamRepo: teamRepo,
		edgeRepo: edgeRepo,
		team:     team,
		manager:  manager,
	}
}

func TestUserService_Create_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	f.teamRepo.On("FindByID", mock.Anything, f.team.ID).Return(f.team, nil)
	f.userRepo.On("CountByTeam", mock.Anything, f.team.ID).Return(int64(3), nil)
	f.userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	dto, err := f.svc.Create(context.Background(), f.manager, CreateUserInput{
		Username:    "newagent",
		Password:    "Password1",
		Email:       "agent@example.com",
		DisplayName: "New Agent",
		Role:        "agent",
	})

	require.NoError(t, err)
	assert.Equal(t, "newagent", dto.Username)
	assert.Equal(t, identity.RoleAgent, dto.Role)
	assert.Equal(t, f.team.ID, dto.TeamID)
	assert.Equal(t, string(identity.UserStatusActive), dto.Status)
}

func TestUserService_Create_CannotCreatePeer(t *testing.T) {
	f := newUserServiceFixture(t)
	district := newActiveTeamMember(f.team.ID, "district", identity.RoleDistrictManager)

	_, err := f.svc.Create(context.Background(), district, CreateUserInput{
		Username: "peer",
		Password: "Password1",
		Role:     "district_manager",
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(*shared.DomainError).Code)
}

func TestUserService_Create_AgentCannotCreate(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	_, err := f.svc.Create(context.Background(), agent, CreateUserInput{
		Username: "another",
		Password: "Password1",
		Role:     "agent",
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(*shared.DomainError).Code)
}

func TestUserService_Create_TeamFull(t *testing.T) {
	f := newUserServiceFixture(t)

	f.teamRepo.On("FindByID", mock.Anything, f.team.ID).Return(f.team, nil)
	f.userRepo.On("CountByTeam", mock.Anything, f.team.ID).
		Return(int64(f.team.Config.MaxUsers), nil)

	_, err := f.svc.Create(context.Background(), f.manager, CreateUserInput{
		Username: "onetoomany",
		Password: "Password1",
		Role:     "agent",
	})

	require.Error(t, err)
	assert.Equal(t, "TEAM_FULL", err.(*shared.DomainError).Code)
}

func TestUserService_Create_WithManagerEdge(t *testing.T) {
	f := newUserServiceFixture(t)
	district := newActiveTeamMember(f.team.ID, "district", identity.RoleDistrictManager)

	f.teamRepo.On("FindByID", mock.Anything, f.team.ID).Return(f.team, nil)
	f.userRepo.On("CountByTeam", mock.Anything, f.team.ID).Return(int64(3), nil)
	f.userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)
	f.userRepo.On("FindByID", mock.Anything, district.ID).Return(district, nil)
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	dto, err := f.svc.Create(context.Background(), f.manager, CreateUserInput{
		Username:  "newagent",
		Password:  "Password1",
		Role:      "agent",
		ManagerID: &district.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, dto.ManagerID)
	assert.Equal(t, district.ID, *dto.ManagerID)
}

func TestUserService_Create_ManagerCannotHoldRole(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	f.teamRepo.On("FindByID", mock.Anything, f.team.ID).Return(f.team, nil)
	f.userRepo.On("CountByTeam", mock.Anything, f.team.ID).Return(int64(3), nil)
	f.userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)
	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)

	_, err := f.svc.Create(context.Background(), f.manager, CreateUserInput{
		Username:  "newagent",
		Password:  "Password1",
		Role:      "agent",
		ManagerID: &agent.ID, // agents cannot manage anyone
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_MANAGER", err.(*shared.DomainError).Code)
}

func TestUserService_Get_CrossTeamHidden(t *testing.T) {
	f := newUserServiceFixture(t)
	otherTeam, err := identity.NewTeam("south-texas", "South Texas")
	require.NoError(t, err)
	outsider := newActiveTeamMember(otherTeam.ID, "outsider", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, outsider.ID).Return(outsider, nil)

	_, err = f.svc.Get(context.Background(), f.manager, outsider.ID)

	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", err.(*shared.DomainError).Code)
}

func TestUserService_Get_SubtreeVisibility(t *testing.T) {
	f := newUserServiceFixture(t)
	district := newActiveTeamMember(f.team.ID, "district", identity.RoleDistrictManager)
	report := newActiveTeamMember(f.team.ID, "report", identity.RoleAgent)
	stranger := newActiveTeamMember(f.team.ID, "stranger", identity.RoleAgent)

	edges := []hierarchy.Edge{{UserID: report.ID, ManagerID: district.ID}}
	f.edgeRepo.On("FindTeamEdges", mock.Anything, f.team.ID).Return(edges, nil)
	f.userRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
	f.userRepo.On("FindByID", mock.Anything, stranger.ID).Return(stranger, nil)

	got, err := f.svc.Get(context.Background(), district, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)

	_, err = f.svc.Get(context.Background(), district, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", err.(*shared.DomainError).Code)
}

func TestUserService_List_AppliesVisibilitySet(t *testing.T) {
	f := newUserServiceFixture(t)
	district := newActiveTeamMember(f.team.ID, "district", identity.RoleDistrictManager)
	report := newActiveTeamMember(f.team.ID, "report", identity.RoleAgent)

	edges := []hierarchy.Edge{{UserID: report.ID, ManagerID: district.ID}}
	f.edgeRepo.On("FindTeamEdges", mock.Anything, f.team.ID).Return(edges, nil)
	f.userRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter identity.UserFilter) bool {
		return len(filter.UserIDs) == 2 && filter.TeamID == f.team.ID
	})).Return([]*identity.User{district, report}, int64(2), nil)

	result, err := f.svc.List(context.Background(), district, UserFilterInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Len(t, result.Users, 2)
}

func TestUserService_ChangeRole_PromotionCap(t *testing.T) {
	f := newUserServiceFixture(t)
	regional := newActiveTeamMember(f.team.ID, "regional", identity.RoleRegionalManager)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	edges := []hierarchy.Edge{{UserID: agent.ID, ManagerID: regional.ID}}
	f.edgeRepo.On("FindTeamEdges", mock.Anything, f.team.ID).Return(edges, nil)
	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)

	// A regional manager cannot promote anyone to regional manager
	_, err := f.svc.ChangeRole(context.Background(), regional, agent.ID, "regional_manager")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(*shared.DomainError).Code)

	f.userRepo.On("Update", mock.Anything, agent).Return(nil)
	dto, err := f.svc.ChangeRole(context.Background(), regional, agent.ID, "district_manager")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleDistrictManager, dto.Role)
}

func TestUserService_Deactivate_SelfRejected(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Deactivate(context.Background(), f.manager, f.manager.ID)

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(*shared.DomainError).Code)
}

func TestUserService_Lock_SuspendsAccess(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)
	f.userRepo.On("Update", mock.Anything, agent).Return(nil)

	dto, err := f.svc.Lock(context.Background(), f.manager, agent.ID)

	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusLocked), dto.Status)
	assert.Nil(t, agent.LockedUntil)
}

func TestUserService_Lock_SelfRejected(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Lock(context.Background(), f.manager, f.manager.ID)

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(*shared.DomainError).Code)
}

func TestUserService_Delete_RequiresDeactivated(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)

	err := f.svc.Delete(context.Background(), f.manager, agent.ID)
	require.Error(t, err)
	assert.Equal(t, "USER_NOT_DEACTIVATED", err.(*shared.DomainError).Code)
}

func TestUserService_Delete_BlocksWithReports(t *testing.T) {
	f := newUserServiceFixture(t)
	district := newActiveTeamMember(f.team.ID, "district", identity.RoleDistrictManager)
	require.NoError(t, district.Deactivate())
	report := newActiveTeamMember(f.team.ID, "report", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, district.ID).Return(district, nil)
	f.userRepo.On("FindDirectReports", mock.Anything, f.team.ID, district.ID).
		Return([]*identity.User{report}, nil)

	err := f.svc.Delete(context.Background(), f.manager, district.ID)
	require.Error(t, err)
	assert.Equal(t, "HAS_REPORTS", err.(*shared.DomainError).Code)
}

func TestUserService_Delete_Success(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)
	require.NoError(t, agent.Deactivate())

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)
	f.userRepo.On("FindDirectReports", mock.Anything, f.team.ID, agent.ID).
		Return([]*identity.User{}, nil)
	f.userRepo.On("Delete", mock.Anything, agent.ID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), f.manager, agent.ID))
	f.userRepo.AssertCalled(t, "Delete", mock.Anything, agent.ID)
}

func TestUserService_ResetPassword_ForcesChange(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)
	f.userRepo.On("Update", mock.Anything, agent).Return(nil)

	err := f.svc.ResetPassword(context.Background(), f.manager, agent.ID, "TempPass99")
	require.NoError(t, err)
	assert.True(t, agent.VerifyPassword("TempPass99"))
	assert.True(t, agent.MustChangePassword)
}

func TestUserService_AssignManager_CrossTeamRejected(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	otherTeam, err := identity.NewTeam("south-texas", "South Texas")
	require.NoError(t, err)
	foreignManager := newActiveTeamMember(otherTeam.ID, "foreign", identity.RoleDistrictManager)

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)
	f.userRepo.On("FindByID", mock.Anything, foreignManager.ID).Return(foreignManager, nil)

	_, err = f.svc.AssignManager(context.Background(), f.manager, agent.ID, &foreignManager.ID)
	require.Error(t, err)
	assert.Equal(t, "TEAM_MISMATCH", err.(*shared.DomainError).Code)
}

func TestUserService_AssignManager_NilOnlyForStateManagers(t *testing.T) {
	f := newUserServiceFixture(t)
	agent := newActiveTeamMember(f.team.ID, "agent1", identity.RoleAgent)

	f.userRepo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)

	_, err := f.svc.AssignManager(context.Background(), f.manager, agent.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "MANAGER_REQUIRED", err.(*shared.DomainError).Code)
}

func TestUserService_Get_NotFound(t *testing.T) {
	f := newUserServiceFixture(t)
	missing := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Get(context.Background(), f.manager, missing)
	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", err.(*shared.DomainError).Code)
}
