package access

import "strings"

// Role is one of the three principal kinds. Precedence is admin > coach > client.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

var rolePrecedence = []Role{RoleAdmin, RoleCoach, RoleClient}

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCoach:
		return RoleCoach, true
	case RoleClient:
		return RoleClient, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleClient:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Dashboard is the canonical landing route for a primary role.
func (r Role) Dashboard() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleCoach:
		return "/coach"
	case RoleClient:
		return "/client"
	default:
		return GenericDashboardPath
	}
}

// RoleSet holds every role row a principal has. Unknown role names are dropped.
type RoleSet map[Role]struct{}

func NewRoleSet(values ...string) RoleSet {
	set := make(RoleSet, len(values))
	for _, value := range values {
		if role, ok := ParseRole(value); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Primary collapses the set to a single role. A principal with no role rows is
// treated as a client.
func (s RoleSet) Primary() Role {
	for _, role := range rolePrecedence {
		if s.Has(role) {
			return role
		}
	}
	return RoleClient
}

// Strings lists the roles in precedence order.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, role := range rolePrecedence {
		if s.Has(role) {
			out = append(out, string(role))
		}
	}
	return out
}
