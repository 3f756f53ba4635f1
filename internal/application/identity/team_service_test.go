package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

func newTeamServiceFixture() (*TeamService, *MockTeamRepository, *MockUserRepository) {
	teamRepo := new(MockTeamRepository)
	userRepo := new(MockUserRepository)
	svc := NewTeamService(teamRepo, userRepo, relaxedPublisher(), zap.NewNop())
	return svc, teamRepo, userRepo
}

func TestTeamService_Create_WithFirstManager(t *testing.T) {
	svc, teamRepo, userRepo := newTeamServiceFixture()

	teamRepo.On("ExistsByCode", mock.Anything, "north-texas").Return(false, nil)
	userRepo.On("ExistsByUsername", mock.Anything, "boss").Return(false, nil)
	teamRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Team")).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	team, manager, err := svc.Create(context.Background(), CreateTeamInput{
		Code:            "north-texas",
		Name:            "North Texas",
		ManagerUsername: "boss",
		ManagerPassword: "Password1",
		ManagerEmail:    "boss@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "north-texas", team.Code)
	assert.Equal(t, string(identity.TeamStatusActive), team.Status)
	assert.Equal(t, identity.RoleStateManager, manager.Role)
	assert.Equal(t, team.ID, manager.TeamID)
	assert.Equal(t, "boss@example.com", manager.Email)
	assert.Nil(t, manager.ManagerID)
}

func TestTeamService_Create_CodeTaken(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()

	teamRepo.On("ExistsByCode", mock.Anything, "north-texas").Return(true, nil)

	_, _, err := svc.Create(context.Background(), CreateTeamInput{
		Code:            "north-texas",
		Name:            "North Texas",
		ManagerUsername: "boss",
		ManagerPassword: "Password1",
	})

	require.Error(t, err)
	assert.Equal(t, "CODE_EXISTS", err.(*shared.DomainError).Code)
}

func TestTeamService_Create_RollsBackOnManagerFailure(t *testing.T) {
	svc, teamRepo, userRepo := newTeamServiceFixture()

	teamRepo.On("ExistsByCode", mock.Anything, "north-texas").Return(false, nil)
	userRepo.On("ExistsByUsername", mock.Anything, "boss").Return(false, nil)
	teamRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Team")).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).
		Return(errors.New("unique violation"))
	teamRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, _, err := svc.Create(context.Background(), CreateTeamInput{
		Code:            "north-texas",
		Name:            "North Texas",
		ManagerUsername: "boss",
		ManagerPassword: "Password1",
	})

	require.Error(t, err)
	teamRepo.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTeamService_UpdateConfig_MergesFields(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	originalMax := team.Config.MaxUsers

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)
	teamRepo.On("Update", mock.Anything, team).Return(nil)

	goal := decimal.NewFromInt(25000)
	tz := "America/Chicago"
	dto, err := svc.UpdateConfig(context.Background(), team.ID, TeamConfigInput{
		Timezone:          &tz,
		WeeklyPremiumGoal: &goal,
	})

	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", dto.Config.Timezone)
	assert.True(t, goal.Equal(dto.Config.WeeklyPremiumGoal))
	assert.Equal(t, originalMax, dto.Config.MaxUsers)
}

func TestTeamService_UpdateConfig_RejectsBadTimezone(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	tz := "Mars/Olympus"
	_, err = svc.UpdateConfig(context.Background(), team.ID, TeamConfigInput{Timezone: &tz})
	require.Error(t, err)
}

func TestTeamService_Suspend_ThenReactivate(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)
	teamRepo.On("Update", mock.Anything, team).Return(nil)

	dto, err := svc.Suspend(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, string(identity.TeamStatusSuspended), dto.Status)

	dto, err = svc.Activate(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, string(identity.TeamStatusActive), dto.Status)
}

func TestTeamService_Delete_RequiresDeactivated(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	err = svc.Delete(context.Background(), team.ID)
	require.Error(t, err)
	assert.Equal(t, "TEAM_NOT_DEACTIVATED", err.(*shared.DomainError).Code)
}

func TestTeamService_Delete_RequiresEmpty(t *testing.T) {
	svc, teamRepo, userRepo := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	require.NoError(t, team.Deactivate())

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)
	userRepo.On("CountByTeam", mock.Anything, team.ID).Return(int64(4), nil)

	err = svc.Delete(context.Background(), team.ID)
	require.Error(t, err)
	assert.Equal(t, "TEAM_NOT_EMPTY", err.(*shared.DomainError).Code)
}

func TestTeamService_Delete_Success(t *testing.T) {
	svc, teamRepo, userRepo := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	require.NoError(t, team.Deactivate())

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)
	userRepo.On("CountByTeam", mock.Anything, team.ID).Return(int64(0), nil)
	teamRepo.On("Delete", mock.Anything, team.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), team.ID))
	teamRepo.AssertCalled(t, "Delete", mock.Anything, team.ID)
}

func TestTeamService_Stats(t *testing.T) {
	svc, teamRepo, userRepo := newTeamServiceFixture()
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)

	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)
	userRepo.On("CountByTeamGroupedByStatus", mock.Anything, team.ID).Return(map[identity.UserStatus]int64{
		identity.UserStatusActive:  12,
		identity.UserStatusPending: 2,
		identity.UserStatusLocked:  1,
	}, nil)

	stats, err := svc.Stats(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stats.TotalUsers)
	assert.Equal(t, int64(12), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.PendingUsers)
	assert.Equal(t, int64(1), stats.LockedUsers)
	assert.Equal(t, int64(0), stats.DeactivatedUsers)
	assert.Equal(t, team.Config.MaxUsers, stats.MaxUsers)
}

func TestTeamService_Stats_TeamNotFound(t *testing.T) {
	svc, teamRepo, _ := newTeamServiceFixture()
	id := uuid.New()

	teamRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Stats(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, "TEAM_NOT_FOUND", err.(*shared.DomainError).Code)
}
