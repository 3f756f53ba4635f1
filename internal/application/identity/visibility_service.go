package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/hierarchy"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VisibilityService resolves a viewer's read scope into a concrete set
// of user IDs. The set is what repository filters consume: nil means
// unbounded within the viewer's team.
type VisibilityService struct {
	userRepo identity.UserRepository
	edgeRepo hierarchy.EdgeRepository
	logger   *zap.Logger
}

// NewVisibilityService creates a new visibility service
func NewVisibilityService(
	userRepo identity.UserRepository,
	edgeRepo hierarchy.EdgeRepository,
	logger *zap.Logger,
) *VisibilityService {
	return &VisibilityService{
		userRepo: userRepo,
		edgeRepo: edgeRepo,
		logger:   logger,
	}
}

// Visibility is a resolved viewer scope
type Visibility struct {
	Scope hierarchy.VisibilityScope
	// UserIDs is the visible set for bounded scopes. Nil for team and
	// global scope, where no per-user filter applies.
	UserIDs []uuid.UUID
}

// Contains reports whether targetID is inside the visible set
func (v Visibility) Contains(targetID uuid.UUID) bool {
	if v.Scope.IsUnbounded() {
		return true
	}
	for _, id := range v.UserIDs {
		if id == targetID {
			return true
		}
	}
	return false
}

// Resolve computes the visible user set for a viewer. Managers with
// subtree scope get themselves plus everyone below them in the team's
// reporting tree.
func (s *VisibilityService) Resolve(ctx context.Context, viewer *identity.User) (Visibility, error) {
	scope := hierarchy.ScopeForRole(viewer.Role)
	if scope.IsUnbounded() {
		return Visibility{Scope: scope}, nil
	}
	if scope == hierarchy.ScopeSelf {
		return Visibility{Scope: scope, UserIDs: []uuid.UUID{viewer.ID}}, nil
	}

	resolver, err := hierarchy.LoadResolver(ctx, s.edgeRepo, viewer.TeamID)
	if err != nil {
		s.logger.Error("Failed to load reporting tree",
			zap.String("team_id", viewer.TeamID.String()),
			zap.Error(err))
		return Visibility{}, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve visibility")
	}

	return Visibility{Scope: scope, UserIDs: resolver.Subtree(viewer.ID)}, nil
}

// ResolveByID loads the viewer and resolves their visibility
func (s *VisibilityService) ResolveByID(ctx context.Context, viewerID uuid.UUID) (*identity.User, Visibility, error) {
	viewer, err := s.userRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, Visibility{}, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	vis, err := s.Resolve(ctx, viewer)
	if err != nil {
		return nil, Visibility{}, err
	}
	return viewer, vis, nil
}

// CanAccessUser reports whether the viewer may read the target user's
// data. Cross-team access is reserved to super admins.
func (s *VisibilityService) CanAccessUser(ctx context.Context, viewer *identity.User, target *identity.User) (bool, error) {
	if viewer.Role == identity.RoleSuperAdmin {
		return true, nil
	}
	if viewer.TeamID != target.TeamID {
		return false, nil
	}
	vis, err := s.Resolve(ctx, viewer)
	if err != nil {
		return false, err
	}
	return vis.Contains(target.ID), nil
}

// OrgTree renders a team's reporting tree rooted at the state
// managers. Users without a manager and without reports appear as
// additional roots so nobody silently drops out of the view.
func (s *VisibilityService) OrgTree(ctx context.Context, teamID uuid.UUID) ([]*OrgNode, error) {
	filter := identity.NewUserFilter()
	filter.TeamID = teamID
	filter.PageSize = 100
	var all []*identity.User
	for {
		users, total, err := s.userRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to load team members", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load team members")
		}
		all = append(all, users...)
		if int64(len(all)) >= total || len(users) == 0 {
			break
		}
		filter.Page++
	}

	nodes := make(map[uuid.UUID]*OrgNode, len(all))
	for _, u := range all {
		nodes[u.ID] = &OrgNode{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.GetDisplayNameOrUsername(),
			Role:        u.Role,
		}
	}

	var roots []*OrgNode
	for _, u := range all {
		node := nodes[u.ID]
		if u.ManagerID != nil {
			if parent, ok := nodes[*u.ManagerID]; ok {
				parent.Reports = append(parent.Reports, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}
