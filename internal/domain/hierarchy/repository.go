package hierarchy

import (
	"context"

	"github.com/google/uuid"
)

// EdgeRepository loads a team's reporting edges. The persistence layer
// derives them from the users table (user_id, manager_id) in a single
// team-scoped query.
type EdgeRepository interface {
	FindTeamEdges(ctx context.Context, teamID uuid.UUID) ([]Edge, error)
}

// LoadResolver fetches a team's edges and builds a resolver over them.
func LoadResolver(ctx context.Context, repo EdgeRepository, teamID uuid.UUID) (*Resolver, error) {
	edges, err := repo.FindTeamEdges(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return NewResolver(edges), nil
}
