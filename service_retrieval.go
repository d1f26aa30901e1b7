package teamkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// ============================================================================
// DATA RETRIEVAL
// ============================================================================

// GetAssignments retrieves an organizer's role assignments, optionally
// filtered. Reads are pure: an expired-but-unreconciled assignment is
// reported with status expired, but its row is not touched. Role, scope
// and date-range clauses are pushed down to SQL; derived-status, event
// intersection and free-text clauses are evaluated on the rows.
func (s *Service) GetAssignments(ctx context.Context, organizerID string, filter AssignmentFilter) ([]RoleAssignment, error) {
	var assignments []RoleAssignment
	q := s.db.NewSelect().Model(&assignments).Where("organizer_id = ?", organizerID)
	if len(filter.Roles) > 0 {
		q = q.Where("role IN (?)", bun.In(filter.Roles))
	}
	if len(filter.Scopes) > 0 {
		q = q.Where("scope IN (?)", bun.In(filter.Scopes))
	}
	if !filter.AssignedSince.IsZero() {
		q = q.Where("assigned_at >= ?", filter.AssignedSince)
	}
	if !filter.AssignedUntil.IsZero() {
		q = q.Where("assigned_at <= ?", filter.AssignedUntil)
	}
	q = q.Order("assigned_at DESC", "id DESC")

	err := dbkit.WithErr1(q.Scan(ctx), "GetAssignments").Err()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := assignments[:0]
	for i := range assignments {
		if filter.Matches(&assignments[i], now) {
			out = append(out, assignments[i])
		}
	}
	return out, nil
}

// GetAssignment retrieves a single assignment by ID.
func (s *Service) GetAssignment(ctx context.Context, assignmentID string) (*RoleAssignment, error) {
	var assignment RoleAssignment
	err := s.db.NewSelect().Model(&assignment).Where("id = ?", assignmentID).Limit(1).Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(dbkit.WithErr1(err, "GetAssignment").Err()) {
			return nil, NewError(ErrNotFound, "role assignment not found").WithAssignment(assignmentID)
		}
		return nil, dbkit.WithErr1(err, "GetAssignment").Err()
	}
	return &assignment, nil
}

// CountAssignments returns the number of assignments an organizer has,
// regardless of status. Useful for monitoring and pagination.
func (s *Service) CountAssignments(ctx context.Context, organizerID string) (int, error) {
	return dbkit.Count[RoleAssignment](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("organizer_id = ?", organizerID)
	})
}

// AssignmentExists reports whether an assignment ID exists, active or
// not. Cheaper than GetAssignment when the row itself is not needed.
func (s *Service) AssignmentExists(ctx context.Context, assignmentID string) bool {
	exists, err := dbkit.Exists[RoleAssignment](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", assignmentID)
	})
	if err != nil {
		return false
	}
	return exists
}

// ============================================================================
// PERMISSION EVALUATION
// ============================================================================

// GetEvaluator loads an assignment and resolves its role's base
// permission set into an Evaluator for repeated checks.
func (s *Service) GetEvaluator(ctx context.Context, assignmentID string) (*Evaluator, error) {
	assignment, err := s.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	base, err := s.resolveBasePermissions(ctx, assignment.Role)
	if err != nil {
		// The role config may have been removed from the catalog, or the
		// referenced permission set soft-deleted, after assignment. The
		// assignment then grants only its custom permissions.
		if IsValidation(err) {
			base = nil
		} else {
			return nil, err
		}
	}

	return NewEvaluator(assignment, base), nil
}

// HasPermission answers a single yes/no permission check for an
// assignment. A missing, inactive, or expired assignment yields false;
// storage errors are returned as errors, never mapped to false silently.
func (s *Service) HasPermission(ctx context.Context, assignmentID, permissionID string) (bool, error) {
	evaluator, err := s.GetEvaluator(ctx, assignmentID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return evaluator.HasPermission(permissionID), nil
}

// ResolvePermissions returns the effective permission set for an
// assignment: the union of the role's base permissions and the
// assignment's custom permissions. Empty for inactive assignments.
func (s *Service) ResolvePermissions(ctx context.Context, assignmentID string) ([]string, error) {
	evaluator, err := s.GetEvaluator(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return evaluator.ResolvedPermissions(), nil
}
