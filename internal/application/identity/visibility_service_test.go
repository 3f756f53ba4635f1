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
)

func newVisibilityFixture() (*VisibilityService, *MockUserRepository, *MockEdgeRepository) {
	userRepo := new(MockUserRepository)
	edgeRepo := new(MockEdgeRepository)
	return NewVisibilityService(userRepo, edgeRepo, zap.NewNop()), userRepo, edgeRepo
}

func TestVisibilityService_Resolve_AgentSeesSelf(t *testing.T) {
	svc, _, _ := newVisibilityFixture()
	teamID := uuid.New()
	agent := newActiveTeamMember(teamID, "agent1", identity.RoleAgent)

	vis, err := svc.Resolve(context.Background(), agent)

	require.NoError(t, err)
	assert.Equal(t, hierarchy.ScopeSelf, vis.Scope)
	assert.Equal(t, []uuid.UUID{agent.ID}, vis.UserIDs)
	assert.True(t, vis.Contains(agent.ID))
	assert.False(t, vis.Contains(uuid.New()))
}

func TestVisibilityService_Resolve_StateManagerUnbounded(t *testing.T) {
	svc, _, edgeRepo := newVisibilityFixture()
	teamID := uuid.New()
	manager := newActiveTeamMember(teamID, "manager", identity.RoleStateManager)

	vis, err := svc.Resolve(context.Background(), manager)

	require.NoError(t, err)
	assert.Equal(t, hierarchy.ScopeTeam, vis.Scope)
	assert.Nil(t, vis.UserIDs)
	assert.True(t, vis.Contains(uuid.New()))
	edgeRepo.AssertNotCalled(t, "FindTeamEdges", mock.Anything, mock.Anything)
}

func TestVisibilityService_Resolve_DistrictManagerSubtree(t *testing.T) {
	svc, _, edgeRepo := newVisibilityFixture()
	teamID := uuid.New()
	district := newActiveTeamMember(teamID, "district", identity.RoleDistrictManager)
	agentA := newActiveTeamMember(teamID, "agenta", identity.RoleAgent)
	agentB := newActiveTeamMember(teamID, "agentb", identity.RoleAgent)
	stranger := newActiveTeamMember(teamID, "stranger", identity.RoleAgent)

	edgeRepo.On("FindTeamEdges", mock.Anything, teamID).Return([]hierarchy.Edge{
		{UserID: agentA.ID, ManagerID: district.ID},
		{UserID: agentB.ID, ManagerID: district.ID},
	}, nil)

	vis, err := svc.Resolve(context.Background(), district)

	require.NoError(t, err)
	assert.Equal(t, hierarchy.ScopeSubtree, vis.Scope)
	assert.Len(t, vis.UserIDs, 3)
	assert.True(t, vis.Contains(district.ID))
	assert.True(t, vis.Contains(agentA.ID))
	assert.True(t, vis.Contains(agentB.ID))
	assert.False(t, vis.Contains(stranger.ID))
}

func TestVisibilityService_Resolve_RegionalSpansLevels(t *testing.T) {
	svc, _, edgeRepo := newVisibilityFixture()
	teamID := uuid.New()
	regional := newActiveTeamMember(teamID, "regional", identity.RoleRegionalManager)
	district := newActiveTeamMember(teamID, "district", identity.RoleDistrictManager)
	agent := newActiveTeamMember(teamID, "agent1", identity.RoleAgent)

	edgeRepo.On("FindTeamEdges", mock.Anything, teamID).Return([]hierarchy.Edge{
		{UserID: district.ID, ManagerID: regional.ID},
		{UserID: agent.ID, ManagerID: district.ID},
	}, nil)

	vis, err := svc.Resolve(context.Background(), regional)

	require.NoError(t, err)
	assert.True(t, vis.Contains(regional.ID))
	assert.True(t, vis.Contains(district.ID))
	assert.True(t, vis.Contains(agent.ID))
}

func TestVisibilityService_CanAccessUser_SuperAdminCrossesTeams(t *testing.T) {
	svc, _, _ := newVisibilityFixture()
	admin, err := identity.NewActiveUser(uuid.Nil, "root", "Password1", identity.RoleSuperAdmin)
	require.NoError(t, err)
	target := newActiveTeamMember(uuid.New(), "agent1", identity.RoleAgent)

	ok, err := svc.CanAccessUser(context.Background(), admin, target)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVisibilityService_CanAccessUser_CrossTeamDenied(t *testing.T) {
	svc, _, _ := newVisibilityFixture()
	manager := newActiveTeamMember(uuid.New(), "manager", identity.RoleStateManager)
	target := newActiveTeamMember(uuid.New(), "agent1", identity.RoleAgent)

	ok, err := svc.CanAccessUser(context.Background(), manager, target)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVisibilityService_OrgTree(t *testing.T) {
	svc, userRepo, _ := newVisibilityFixture()
	teamID := uuid.New()
	manager := newActiveTeamMember(teamID, "manager", identity.RoleStateManager)
	district := newActiveTeamMember(teamID, "district", identity.RoleDistrictManager)
	agent := newActiveTeamMember(teamID, "agent1", identity.RoleAgent)
	require.NoError(t, district.AssignManager(&manager.ID))
	require.NoError(t, agent.AssignManager(&district.ID))
	orphan := newActiveTeamMember(teamID, "orphan", identity.RoleAgent)

	all := []*identity.User{manager, district, agent, orphan}
	userRepo.On("FindAll", mock.Anything, mock.AnythingOfType("identity.UserFilter")).
		Return(all, int64(len(all)), nil)

	roots, err := svc.OrgTree(context.Background(), teamID)

	require.NoError(t, err)
	require.Len(t, roots, 2)

	byUsername := make(map[string]*OrgNode, len(roots))
	for _, r := range roots {
		byUsername[r.Username] = r
	}
	root := byUsername["manager"]
	require.NotNil(t, root)
	require.Len(t, root.Reports, 1)
	assert.Equal(t, "district", root.Reports[0].Username)
	require.Len(t, root.Reports[0].Reports, 1)
	assert.Equal(t, "agent1", root.Reports[0].Reports[0].Username)

	require.NotNil(t, byUsername["orphan"])
	assert.Empty(t, byUsername["orphan"].Reports)
}
