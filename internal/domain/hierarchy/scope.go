package hierarchy

import (
	"github.com/salespulse/backend/internal/domain/identity"
)

// VisibilityScope describes which users' data a viewer may read.
type VisibilityScope string

const (
	// ScopeSelf limits visibility to the viewer's own records.
	ScopeSelf VisibilityScope = "self"
	// ScopeSubtree covers the viewer and everyone below them in the
	// reporting tree.
	ScopeSubtree VisibilityScope = "subtree"
	// ScopeTeam covers every member of the viewer's team.
	ScopeTeam VisibilityScope = "team"
	// ScopeGlobal covers all teams. Only super admins hold it.
	ScopeGlobal VisibilityScope = "global"
)

// ScopeForRole maps a role to its read scope. Write access is narrower
// and enforced separately by the application services.
func ScopeForRole(role identity.Role) VisibilityScope {
	switch role {
	case identity.RoleSuperAdmin:
		return ScopeGlobal
	case identity.RoleStateManager:
		return ScopeTeam
	case identity.RoleRegionalManager, identity.RoleDistrictManager:
		return ScopeSubtree
	default:
		return ScopeSelf
	}
}

// IsUnbounded reports whether the scope needs no per-user ID filter
// within a single team's data set.
func (s VisibilityScope) IsUnbounded() bool {
	return s == ScopeTeam || s == ScopeGlobal
}
