// Package rbac decides which console menu entries and routes a staff role can
// reach. The menu is a static declaration; filtering is a pure function of
// (menu, role) and never mutates the declaration.
package rbac

import "strings"

// Role is the closed set of console roles. Raw strings from the backend go
// through ParseRole before any comparison.
type Role string

const (
	RoleUnknown    Role = ""
	RoleAdmin      Role = "Admin"
	RoleFranchise  Role = "Franchise"
	RoleDeveloper  Role = "Developer"
	RoleClient     Role = "Client"
	RoleAccountant Role = "Accountant"
	// The backend uses both manager spellings. They are kept as two distinct
	// roles; Lint reports declarations that grant only one of them.
	RoleOperationalManager Role = "Operational Manager"
	RoleOperationManager   Role = "Operation Manager"
)

var knownRoles = map[Role]bool{
	RoleAdmin:              true,
	RoleFranchise:          true,
	RoleDeveloper:          true,
	RoleClient:             true,
	RoleAccountant:         true,
	RoleOperationalManager: true,
	RoleOperationManager:   true,
}

// ParseRole maps a raw role string to a Role. Surrounding whitespace is
// ignored; anything unrecognised becomes RoleUnknown.
func ParseRole(raw string) Role {
	r := Role(strings.TrimSpace(raw))
	if knownRoles[r] {
		return r
	}
	return RoleUnknown
}

// Known reports whether r is one of the declared roles.
func (r Role) Known() bool {
	return knownRoles[r]
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// Roles lists every known role in a stable order.
func Roles() []Role {
	return []Role{
		RoleAdmin,
		RoleFranchise,
		RoleDeveloper,
		RoleOperationalManager,
		RoleOperationManager,
		RoleClient,
		RoleAccountant,
	}
}

// HasAccess reports whether role may see an entry guarded by allowed. An empty
// set admits every signed-in role, including RoleUnknown; a non-empty set
// admits only its members.
func HasAccess(allowed []Role, role Role) bool {
	if len(allowed) == 0 {
		return true
	}
	if role == RoleUnknown {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
