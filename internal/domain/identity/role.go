package identity

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is the fixed position of a user in the reporting hierarchy.
// Ranks are ordered: a role manages only roles of strictly lower rank.
type Role string

const (
	RoleAgent           Role = "agent"
	RoleDistrictManager Role = "district_manager"
	RoleRegionalManager Role = "regional_manager"
	RoleStateManager    Role = "state_manager"
	RoleSuperAdmin      Role = "super_admin"
)

// AllRoles returns every valid role, lowest rank first
func AllRoles() []Role {
	return []Role{
		RoleAgent,
		RoleDistrictManager,
		RoleRegionalManager,
		RoleStateManager,
		RoleSuperAdmin,
	}
}

var roleRanks = map[Role]int{
	RoleAgent:           1,
	RoleDistrictManager: 2,
	RoleRegionalManager: 3,
	RoleStateManager:    4,
	RoleSuperAdmin:      5,
}

// ParseRole parses a role string, case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("identity: invalid role %q", s)
	}
	return r, nil
}

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the numeric rank of the role (higher outranks lower).
// Unknown roles rank 0.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Outranks reports whether r is strictly higher in the hierarchy than other
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// AtLeast reports whether r ranks at or above other
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// IsManager reports whether the role may have direct reports
func (r Role) IsManager() bool {
	return r.Rank() >= roleRanks[RoleDistrictManager] && r != RoleSuperAdmin
}

// CanManage reports whether a user with role r may be the manager of a
// user with role sub. Super admins sit outside team hierarchies.
func (r Role) CanManage(sub Role) bool {
	if r == RoleSuperAdmin || sub == RoleSuperAdmin {
		return false
	}
	return r.Outranks(sub)
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Scan implements the sql.Scanner interface
func (r *Role) Scan(value any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		if b, ok := value.([]byte); ok {
			s = string(b)
		} else {
			return fmt.Errorf("identity: cannot scan type %T into Role", value)
		}
	}
	*r = Role(strings.ToLower(s))
	if !r.IsValid() {
		return fmt.Errorf("identity: invalid role: %s", s)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}
