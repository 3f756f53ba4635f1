package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/auth"
	"github.com/salespulse/backend/internal/infrastructure/config"
)

func newTestAuthService(userRepo *MockUserRepository, teamRepo *MockTeamRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret",
		RefreshSecret:          "test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "salespulse-test",
		MaxRefreshCount:        10,
	})
	return NewAuthService(
		userRepo,
		teamRepo,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	result, err := svc.Login(context.Background(), LoginInput{
		Username: "jsmith",
		Password: "Password1",
		IP:       "10.1.2.3",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, team.ID, result.User.TeamID)
	assert.Equal(t, identity.RoleAgent, result.User.Role)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "10.1.2.3", user.LastLoginIP)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	_, err = svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "wrong-pass1"})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)
	user.FailedAttempts = 4 // one attempt away from the limit

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	_, err = svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "wrong-pass1"})

	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, user.IsLocked())
}

func TestAuthService_Login_SuspendedTeamBlocked(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	require.NoError(t, team.Suspend())
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	_, err = svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "Password1"})

	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "TEAM_INACTIVE", domainErr.Code)
}

func TestAuthService_Login_SuperAdminSkipsTeamCheck(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	admin, err := identity.NewActiveUser(uuid.Nil, "root", "Password1", identity.RoleSuperAdmin)
	require.NoError(t, err)

	userRepo.On("FindByUsername", mock.Anything, "root").Return(admin, nil)
	userRepo.On("Update", mock.Anything, admin).Return(nil)

	svc := newTestAuthService(userRepo, teamRepo)
	result, err := svc.Login(context.Background(), LoginInput{Username: "root", Password: "Password1"})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleSuperAdmin, result.User.Role)
	teamRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_Login_PendingAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user, err := identity.NewUser(team.ID, "jsmith", "Password1", identity.RoleAgent)
	require.NoError(t, err)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	_, err = svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "Password1"})

	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "ACCOUNT_PENDING", domainErr.Code)
}

func TestAuthService_RefreshToken_RoundTrip(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	login, err := svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "Password1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	svc := newTestAuthService(new(MockUserRepository), new(MockTeamRepository))

	_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "not-a-token"})
	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_ForceLogout_InvalidatesRefresh(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByUsername", mock.Anything, "jsmith").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	teamRepo.On("FindByID", mock.Anything, team.ID).Return(team, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	login, err := svc.Login(context.Background(), LoginInput{Username: "jsmith", Password: "Password1"})
	require.NoError(t, err)

	// Issued-at has second granularity; the invalidation cutoff must
	// land strictly after it
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, svc.ForceLogout(context.Background(), ForceLogoutInput{TargetUserID: user.ID}))

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	svc := newTestAuthService(userRepo, teamRepo)
	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "Password1",
		NewPassword: "NewPassword2",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("NewPassword2"))
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	userRepo := new(MockUserRepository)
	teamRepo := new(MockTeamRepository)

	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	user := newActiveTeamMember(team.ID, "jsmith", identity.RoleAgent)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	svc := newTestAuthService(userRepo, teamRepo)
	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "wrong-pass1",
		NewPassword: "NewPassword2",
	})

	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
}
