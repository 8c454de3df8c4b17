package auth

import (
	"sort"
	"strings"
)

// Role is a privilege tier. Roles are totally ordered: superadmin > admin > user.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Roles lists every known role from least to most privileged.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleSuperAdmin}
}

// ParseRole normalises value and reports whether it names a known role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleRank[role]; !ok {
		return "", false
	}
	return role, true
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r is at least as privileged as min.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

func (r Role) String() string {
	return string(r)
}

// Policy is the set of roles allowed through a guarded operation.
type Policy struct {
	allowed map[Role]struct{}
}

// AtLeast allows min and every role above it.
func AtLeast(min Role) Policy {
	allowed := make(map[Role]struct{}, len(roleRank))
	for role := range roleRank {
		if role.AtLeast(min) {
			allowed[role] = struct{}{}
		}
	}
	return Policy{allowed: allowed}
}

// AnyOf allows exactly the listed roles.
func AnyOf(roles ...Role) Policy {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		if role.Valid() {
			allowed[role] = struct{}{}
		}
	}
	return Policy{allowed: allowed}
}

// AnySession allows any known role. It only asks for a signed-in account.
func AnySession() Policy {
	return AtLeast(RoleUser)
}

// Allows reports whether role satisfies the policy.
func (p Policy) Allows(role Role) bool {
	_, ok := p.allowed[role]
	return ok
}

func (p Policy) String() string {
	names := make([]string, 0, len(p.allowed))
	for role := range p.allowed {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}
