package teamkit

import (
	"strings"
	"time"
)

// AssignmentStatus is a derived status used for filtering. It is computed
// from IsActive and ExpiresAt at query time, never stored.
type AssignmentStatus string

const (
	// StatusActive: marked active and not past expiry.
	StatusActive AssignmentStatus = "active"
	// StatusExpired: deactivated, or past expiry even if reconciliation
	// has not flipped IsActive yet.
	StatusExpired AssignmentStatus = "expired"
	// StatusExpiring: active with an expiry inside the lookahead window.
	StatusExpiring AssignmentStatus = "expiring"
)

// ExpiringWindow is the lookahead used by the StatusExpiring filter and
// by GetExpiringAssignments when no explicit window is given.
const ExpiringWindow = 7 * 24 * time.Hour

// AssignmentFilter provides options for filtering assignment queries.
// The zero value matches everything for the organizer.
type AssignmentFilter struct {
	// Filter by role identifiers
	Roles []string

	// Filter by scope
	Scopes []RoleScope

	// Filter by derived status (active / expired / expiring). An
	// assignment matches if it satisfies any requested status.
	Statuses []AssignmentStatus

	// Keep assignments whose event list intersects these IDs
	EventIDs []string

	// Case-insensitive substring match over role and notes
	SearchTerm string

	// Filter by assignment time range
	AssignedSince time.Time
	AssignedUntil time.Time
}

// NewAssignmentFilter creates an empty AssignmentFilter.
func NewAssignmentFilter() AssignmentFilter {
	return AssignmentFilter{}
}

// WithRoles sets the role filter.
func (f AssignmentFilter) WithRoles(roles ...string) AssignmentFilter {
	f.Roles = roles
	return f
}

// WithScopes sets the scope filter.
func (f AssignmentFilter) WithScopes(scopes ...RoleScope) AssignmentFilter {
	f.Scopes = scopes
	return f
}

// WithStatuses sets the derived-status filter.
func (f AssignmentFilter) WithStatuses(statuses ...AssignmentStatus) AssignmentFilter {
	f.Statuses = statuses
	return f
}

// WithEventIDs sets the event intersection filter.
func (f AssignmentFilter) WithEventIDs(eventIDs ...string) AssignmentFilter {
	f.EventIDs = eventIDs
	return f
}

// WithSearchTerm sets the free-text search filter.
func (f AssignmentFilter) WithSearchTerm(term string) AssignmentFilter {
	f.SearchTerm = term
	return f
}

// WithAssignedRange sets the assignment time range filter.
func (f AssignmentFilter) WithAssignedRange(since, until time.Time) AssignmentFilter {
	f.AssignedSince = since
	f.AssignedUntil = until
	return f
}

// matchesStatus evaluates the derived-status clauses against one row.
func (f AssignmentFilter) matchesStatus(ra *RoleAssignment, now time.Time) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, status := range f.Statuses {
		switch status {
		case StatusActive:
			if ra.IsCurrentlyActive(now) {
				return true
			}
		case StatusExpired:
			if !ra.IsActive || ra.IsExpired(now) {
				return true
			}
		case StatusExpiring:
			if ra.ExpiresWithin(now, ExpiringWindow) {
				return true
			}
		}
	}
	return false
}

// matchesEvents evaluates the event-intersection clause against one row.
func (f AssignmentFilter) matchesEvents(ra *RoleAssignment) bool {
	if len(f.EventIDs) == 0 {
		return true
	}
	for _, want := range f.EventIDs {
		for _, have := range ra.EventIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

// matchesSearch evaluates the free-text clause against one row.
func (f AssignmentFilter) matchesSearch(ra *RoleAssignment) bool {
	if f.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(f.SearchTerm)
	return strings.Contains(strings.ToLower(ra.Role), term) ||
		strings.Contains(strings.ToLower(ra.Notes), term)
}

// Matches reports whether a row satisfies the derived clauses (status,
// event intersection, search). Role, scope and date range clauses are
// pushed down to SQL by GetAssignments.
func (f AssignmentFilter) Matches(ra *RoleAssignment, now time.Time) bool {
	return f.matchesStatus(ra, now) && f.matchesEvents(ra) && f.matchesSearch(ra)
}

// AuditTrailFilter provides options for filtering audit trail queries.
type AuditTrailFilter struct {
	// Filter by assignment
	AssignmentID string

	// Filter by who performed the change
	ChangedBy string

	// Filter by action type
	Action AuditAction

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewAuditTrailFilter creates a new AuditTrailFilter with default values.
func NewAuditTrailFilter() AuditTrailFilter {
	return AuditTrailFilter{
		Limit: 100,
	}
}

// WithAssignment sets the assignment ID filter.
func (f AuditTrailFilter) WithAssignment(assignmentID string) AuditTrailFilter {
	f.AssignmentID = assignmentID
	return f
}

// WithChangedBy sets the actor filter.
func (f AuditTrailFilter) WithChangedBy(changedBy string) AuditTrailFilter {
	f.ChangedBy = changedBy
	return f
}

// WithAction sets the action filter.
func (f AuditTrailFilter) WithAction(action AuditAction) AuditTrailFilter {
	f.Action = action
	return f
}

// WithTimeRange sets the time range filter.
func (f AuditTrailFilter) WithTimeRange(since, until time.Time) AuditTrailFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets both limit and offset.
func (f AuditTrailFilter) WithPagination(limit, offset int) AuditTrailFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}
