package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormEdgeRepository_FindTeamEdges(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormEdgeRepository(db)

	teamID := uuid.New()
	manager := uuid.New()
	agent1 := uuid.New()
	agent2 := uuid.New()

	mock.ExpectQuery(`SELECT id, manager_id FROM "users" WHERE team_id = \$1 AND manager_id IS NOT NULL`).
		WithArgs(teamID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "manager_id"}).
			AddRow(agent1, manager).
			AddRow(agent2, manager))

	edges, err := repo.FindTeamEdges(context.Background(), teamID)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, manager, edges[0].ManagerID)
	assert.Equal(t, agent1, edges[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormEdgeRepository_FindTeamEdges_Empty(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormEdgeRepository(db)

	teamID := uuid.New()

	mock.ExpectQuery(`SELECT id, manager_id FROM "users" WHERE team_id = \$1 AND manager_id IS NOT NULL`).
		WithArgs(teamID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "manager_id"}))

	edges, err := repo.FindTeamEdges(context.Background(), teamID)
	require.NoError(t, err)
	assert.Empty(t, edges)
	assert.NoError(t, mock.ExpectationsWereMet())
}
