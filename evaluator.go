package teamkit

import (
	"sort"
	"time"
)

// Evaluator answers permission checks for a single role assignment. It is
// built by the Service, which resolves the role's base permission set;
// the evaluator itself is pure and cheap to use in hot paths.
//
// Resolution is a flat set union of the base permissions and the
// assignment's custom permissions. There is no hierarchy and no
// deny-override: a permission granted by either source is granted.
type Evaluator struct {
	assignment *RoleAssignment
	base       []string
}

// NewEvaluator creates an Evaluator from an assignment and the base
// permission set its role resolves to.
func NewEvaluator(assignment *RoleAssignment, basePermissions []string) *Evaluator {
	return &Evaluator{
		assignment: assignment,
		base:       basePermissions,
	}
}

// Assignment returns the assignment this evaluator is for.
func (e *Evaluator) Assignment() *RoleAssignment {
	return e.assignment
}

// IsActive reports whether checks can succeed at all. A missing,
// deactivated, or expired-but-unreconciled assignment evaluates every
// permission to false.
func (e *Evaluator) IsActive(now time.Time) bool {
	return e.assignment != nil && e.assignment.IsCurrentlyActive(now)
}

// HasPermission checks a single permission.
func (e *Evaluator) HasPermission(permissionID string) bool {
	if !e.IsActive(time.Now()) {
		return false
	}
	for _, p := range e.base {
		if p == permissionID {
			return true
		}
	}
	for _, p := range e.assignment.CustomPermissions {
		if p == permissionID {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if any of the permissions is granted.
func (e *Evaluator) HasAnyPermission(permissionIDs ...string) bool {
	for _, id := range permissionIDs {
		if e.HasPermission(id) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if every permission is granted.
func (e *Evaluator) HasAllPermissions(permissionIDs ...string) bool {
	for _, id := range permissionIDs {
		if !e.HasPermission(id) {
			return false
		}
	}
	return true
}

// ResolvedPermissions returns the effective permission set: the union of
// base and custom permissions, sorted and deduplicated. Returns nil for
// an assignment that is not currently active.
func (e *Evaluator) ResolvedPermissions() []string {
	if !e.IsActive(time.Now()) {
		return nil
	}

	set := make(map[string]struct{}, len(e.base)+len(e.assignment.CustomPermissions))
	for _, p := range e.base {
		set[p] = struct{}{}
	}
	for _, p := range e.assignment.CustomPermissions {
		set[p] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
