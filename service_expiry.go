package teamkit

import (
	"context"
	"errors"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// EXPIRY RECONCILIATION
// ============================================================================

// ReconcileExpired deactivates the organizer's active assignments whose
// expiry has passed and returns the ones deactivated in this pass. Each
// deactivation goes through the same versioned mutation path as an
// explicit revoke, appending an "expired" audit entry with
// ChangedBy="system" and enqueueing a role_expired notification.
//
// The pass is idempotent: already-inactive assignments are skipped, so a
// second call with no clock change returns an empty slice and writes
// nothing. A failure on one assignment is remembered but does not stop
// the rest of the pass; the first error is returned alongside the
// assignments that did get deactivated.
//
// Reconciliation is never triggered implicitly by reads. Callers decide
// when to run it (a cron, a scheduler, an admin action).
func (s *Service) ReconcileExpired(ctx context.Context, organizerID string) ([]RoleAssignment, error) {
	now := time.Now()

	var candidates []RoleAssignment
	err := dbkit.WithErr1(s.db.NewSelect().Model(&candidates).
		Where("organizer_id = ? AND is_active = TRUE AND expires_at IS NOT NULL AND expires_at < ?", organizerID, now).
		Order("expires_at ASC").
		Scan(ctx), "ReconcileExpired").Err()
	if err != nil {
		return nil, err
	}

	var deactivated []RoleAssignment
	var firstErr error
	for i := range candidates {
		assignment := candidates[i]
		if err := s.expireAssignment(ctx, &assignment, now); err != nil {
			// A concurrent writer beat us to this record; it will be
			// picked up by the next pass if still eligible.
			if errors.Is(err, ErrConflict) {
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deactivated = append(deactivated, assignment)

		_ = s.enqueueNotification(ctx, assignment.FollowerID, assignment.OrganizerID, NotificationRoleExpired, assignment.ID)
	}

	return deactivated, firstErr
}

// expireAssignment deactivates one expired assignment and appends its
// audit entry in a single transaction.
func (s *Service) expireAssignment(ctx context.Context, assignment *RoleAssignment, now time.Time) error {
	return s.withTx(ctx, func(db dbkit.IDB) error {
		if err := deactivateAssignment(ctx, db, assignment, now); err != nil {
			return err
		}

		entry := &RoleChangeAudit{
			ID:               newID(),
			RoleAssignmentID: assignment.ID,
			OrganizerID:      assignment.OrganizerID,
			Action:           string(AuditActionExpired),
			ChangedBy:        "system",
			ChangedAt:        now,
			Reason:           "assignment expired automatically",
			PreviousRole:     assignment.Role,
			PreviousScope:    assignment.Scope,
		}
		return s.appendAudit(ctx, db, entry)
	})
}

// GetExpiringAssignments returns active assignments whose expiry falls
// strictly between now and now+daysAhead. Pass 0 for the default 7-day
// lookahead. The read never mutates state.
func (s *Service) GetExpiringAssignments(ctx context.Context, organizerID string, daysAhead int) ([]RoleAssignment, error) {
	window := ExpiringWindow
	if daysAhead > 0 {
		window = time.Duration(daysAhead) * 24 * time.Hour
	}
	now := time.Now()

	var assignments []RoleAssignment
	err := dbkit.WithErr1(s.db.NewSelect().Model(&assignments).
		Where("organizer_id = ? AND is_active = TRUE AND expires_at > ? AND expires_at < ?", organizerID, now, now.Add(window)).
		Order("expires_at ASC").
		Scan(ctx), "GetExpiringAssignments").Err()
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
