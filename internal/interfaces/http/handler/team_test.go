package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/salespulse/backend/internal/application/identity"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/interfaces/http/dto"
	"github.com/salespulse/backend/internal/interfaces/http/middleware"
)

// stubTeamRepo serves a single team; everything else is not found.
// Unoverridden interface methods panic, which is fine for these tests.
type stubTeamRepo struct {
	identity.TeamRepository
	team *identity.Team
}

func (s *stubTeamRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Team, error) {
	if s.team != nil && s.team.ID == id {
		return s.team, nil
	}
	return nil, shared.ErrNotFound
}

type dropPublisher struct{}

func (dropPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

func teamActor(teamID uuid.UUID, role identity.Role) *identity.User {
	return &identity.User{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		Username:          "actor",
		Role:              role,
		Status:            identity.UserStatusActive,
	}
}

func newTeamRouter(t *testing.T, team *identity.Team, actor *identity.User) *gin.Engine {
	t.Helper()

	svc := identityapp.NewTeamService(&stubTeamRepo{team: team}, nil, dropPublisher{}, zap.NewNop())
	h := NewTeamHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, actor)
		}
	})
	h.RegisterRoutes(api)
	return router
}

func getTeam(router *gin.Engine, id uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTeamHandler_Get_StateManagerReadsOwnTeam(t *testing.T) {
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	actor := teamActor(team.ID, identity.RoleStateManager)
	router := newTeamRouter(t, team, actor)

	rec := getTeam(router, team.ID)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, rec.Body.String(), "north-texas")
}

func TestTeamHandler_Get_StateManagerCannotReadOtherTeam(t *testing.T) {
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	other, err := identity.NewTeam("south-texas", "South Texas")
	require.NoError(t, err)
	actor := teamActor(other.ID, identity.RoleStateManager)
	router := newTeamRouter(t, team, actor)

	rec := getTeam(router, team.ID)

	// Masked as not found so the team's existence does not leak
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "north-texas")
}

func TestTeamHandler_Get_AgentForbidden(t *testing.T) {
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	actor := teamActor(team.ID, identity.RoleAgent)
	router := newTeamRouter(t, team, actor)

	rec := getTeam(router, team.ID)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTeamHandler_Get_SuperAdminReadsAnyTeam(t *testing.T) {
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	actor := teamActor(uuid.Nil, identity.RoleSuperAdmin)
	router := newTeamRouter(t, team, actor)

	rec := getTeam(router, team.ID)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTeamHandler_List_RequiresSuperAdmin(t *testing.T) {
	team, err := identity.NewTeam("north-texas", "North Texas")
	require.NoError(t, err)
	actor := teamActor(team.ID, identity.RoleStateManager)
	router := newTeamRouter(t, team, actor)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
