// Package policy centralizes authorization decisions behind a single
// evaluation function over a closed role enum, instead of role-string
// comparisons scattered through handlers.
package policy

import "fmt"

// Role is a closed enum of dashboard account roles.
type Role string

const (
	// RolePrincipal oversees the whole organization.
	RolePrincipal Role = "principal"
	// RoleVicePrincipal runs a single campus.
	RoleVicePrincipal Role = "vice_principal"
	// RoleTeacher is a homeroom teacher responsible for specific classes.
	RoleTeacher Role = "teacher"
)

// ParseRole validates a stored role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePrincipal, RoleVicePrincipal, RoleTeacher:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ResourceType identifies what kind of thing an action targets.
type ResourceType string

const (
	// ResourceCampus is a campus's dashboard data. An empty resource ID
	// means "all campuses".
	ResourceCampus ResourceType = "campus"
	// ResourceClass is a single class's dashboard data.
	ResourceClass ResourceType = "class"
	// ResourceVicePrincipalAccount is a vice-principal user account.
	ResourceVicePrincipalAccount ResourceType = "account:vice_principal"
	// ResourceTeacherAccount is a homeroom-teacher user account.
	ResourceTeacherAccount ResourceType = "account:teacher"
	// ResourceLedger is the payment/refund event ledger itself.
	ResourceLedger ResourceType = "ledger"
)

// Action is what the subject wants to do with the resource.
type Action string

const (
	ActionView   Action = "view"
	ActionManage Action = "manage"
	ActionRecord Action = "record"
)

// Subject is the authenticated principal a decision is made for.
type Subject struct {
	Role     Role
	CampusID string
	ClassIDs []string
}

// Resource is the target of a decision.
type Resource struct {
	Type ResourceType
	ID   string
}

// Evaluate returns whether the subject may perform the action on the
// resource. Unknown combinations are denied.
func Evaluate(sub Subject, res Resource, act Action) bool {
	switch res.Type {
	case ResourceCampus:
		if act != ActionView {
			return false
		}
		if sub.Role == RolePrincipal {
			return true
		}
		// Everyone else is confined to their own campus, and nobody but
		// the principal may query across all campuses.
		return res.ID != "" && res.ID == sub.CampusID

	case ResourceClass:
		if act != ActionView {
			return false
		}
		if sub.Role == RolePrincipal || sub.Role == RoleVicePrincipal {
			return true
		}
		for _, id := range sub.ClassIDs {
			if id == res.ID {
				return true
			}
		}
		return false

	case ResourceVicePrincipalAccount:
		return act == ActionManage && sub.Role == RolePrincipal

	case ResourceTeacherAccount:
		return act == ActionManage &&
			(sub.Role == RolePrincipal || sub.Role == RoleVicePrincipal)

	case ResourceLedger:
		return act == ActionRecord && sub.Role == RoleTeacher
	}

	return false
}
