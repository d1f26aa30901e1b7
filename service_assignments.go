package teamkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ASSIGNMENT LIFECYCLE
// ============================================================================

// AssignOptions carries the optional parts of a role grant.
type AssignOptions struct {
	Scope             RoleScope
	EventIDs          []string   // required and non-empty iff Scope == ScopePerEvent
	ExpiresAt         *time.Time // nil = never expires
	CustomPermissions []string   // additive on top of the role's base set
	Notes             string
}

// AssignRole grants a role to a follower. The role must resolve in the
// catalog or reference an active custom permission set. On success the
// assignment and its "assigned" audit entry are committed atomically,
// then a role_assigned notification is enqueued best-effort.
//
// Duplicate (follower, role) pairs are permitted: a follower may hold the
// same role twice with different scopes or event sets.
func (s *Service) AssignRole(ctx context.Context, followerID, role, organizerID, assignedBy string, opts AssignOptions) (*RoleAssignment, error) {
	if followerID == "" {
		return nil, NewError(ErrEmptyField, "follower ID is required").WithField("followerId")
	}
	if organizerID == "" {
		return nil, NewError(ErrEmptyField, "organizer ID is required").WithField("organizerId")
	}
	if assignedBy == "" {
		return nil, NewError(ErrEmptyField, "assigned-by actor is required").WithField("assignedBy")
	}

	if _, err := s.resolveBasePermissions(ctx, role); err != nil {
		return nil, err
	}
	if err := s.catalog.ValidatePermissions(opts.CustomPermissions); err != nil {
		return nil, err
	}

	now := time.Now()
	assignment := &RoleAssignment{
		ID:                newID(),
		FollowerID:        followerID,
		OrganizerID:       organizerID,
		Role:              role,
		Scope:             opts.Scope,
		EventIDs:          opts.EventIDs,
		AssignedBy:        assignedBy,
		AssignedAt:        now,
		ExpiresAt:         opts.ExpiresAt,
		IsActive:          true,
		CustomPermissions: opts.CustomPermissions,
		Notes:             opts.Notes,
		Version:           1,
		UpdatedAt:         now,
	}
	if err := validateAssignment(assignment); err != nil {
		return nil, err
	}
	if assignment.Scope == ScopeGlobal {
		assignment.EventIDs = nil
	}

	audit := GetAuditContext(ctx)
	err := s.withTx(ctx, func(db dbkit.IDB) error {
		result, err := db.NewInsert().Model(assignment).Exec(ctx)
		if err = dbkit.WithErr(result, err, "CreateRoleAssignment").Err(); err != nil {
			return err
		}

		entry := &RoleChangeAudit{
			ID:               newID(),
			RoleAssignmentID: assignment.ID,
			OrganizerID:      organizerID,
			Action:           string(AuditActionAssigned),
			ChangedBy:        assignedBy,
			ChangedAt:        now,
			Reason:           "role assigned",
			NewRole:          role,
			NewScope:         assignment.Scope,
			NewPermissions:   assignment.CustomPermissions,
			IPAddress:        audit.IPAddress,
			UserAgent:        audit.UserAgent,
			RequestID:        audit.RequestID,
		}
		return s.appendAudit(ctx, db, entry)
	})
	if err != nil {
		return nil, err
	}

	_ = s.enqueueNotification(ctx, followerID, organizerID, NotificationRoleAssigned, assignment.ID)

	return assignment, nil
}

// RevokeRole deactivates an assignment. Revoking an already-inactive
// assignment is an idempotent no-op so bulk revokes stay simple; an
// unknown assignment ID is still ErrNotFound. On success the assignment
// flip and its "revoked" audit entry commit atomically.
func (s *Service) RevokeRole(ctx context.Context, assignmentID, revokedBy, reason string) error {
	if revokedBy == "" {
		return NewError(ErrEmptyField, "revoked-by actor is required").WithField("revokedBy")
	}
	if reason == "" {
		reason = "role revoked"
	}

	var assignment *RoleAssignment
	audit := GetAuditContext(ctx)
	now := time.Now()

	err := s.withTx(ctx, func(db dbkit.IDB) error {
		var err error
		assignment, err = getAssignmentForUpdate(ctx, db, assignmentID)
		if err != nil {
			return err
		}
		if !assignment.IsActive {
			assignment = nil // already revoked or expired, nothing to do
			return nil
		}

		if err := deactivateAssignment(ctx, db, assignment, now); err != nil {
			return err
		}

		entry := &RoleChangeAudit{
			ID:               newID(),
			RoleAssignmentID: assignment.ID,
			OrganizerID:      assignment.OrganizerID,
			Action:           string(AuditActionRevoked),
			ChangedBy:        revokedBy,
			ChangedAt:        now,
			Reason:           reason,
			PreviousRole:     assignment.Role,
			PreviousScope:    assignment.Scope,
			IPAddress:        audit.IPAddress,
			UserAgent:        audit.UserAgent,
			RequestID:        audit.RequestID,
		}
		return s.appendAudit(ctx, db, entry)
	})
	if err != nil {
		return err
	}

	if assignment != nil {
		_ = s.enqueueNotification(ctx, assignment.FollowerID, assignment.OrganizerID, NotificationRoleRevoked, assignment.ID)
	}

	return nil
}

// AssignmentUpdate is a partial patch for UpdateRoleAssignment. Nil
// fields are left unchanged; ClearExpiry removes the expiry entirely.
type AssignmentUpdate struct {
	Role              *string
	Scope             *RoleScope
	EventIDs          []string
	ExpiresAt         *time.Time
	ClearExpiry       bool
	CustomPermissions []string
	Notes             *string
}

// UpdateRoleAssignment applies a partial patch to an active assignment.
// The merged result is re-validated against the same invariants as
// AssignRole, and one "modified" audit entry capturing previous and new
// values commits together with the patch.
func (s *Service) UpdateRoleAssignment(ctx context.Context, assignmentID string, updates AssignmentUpdate, updatedBy, reason string) (*RoleAssignment, error) {
	if updatedBy == "" {
		return nil, NewError(ErrEmptyField, "updated-by actor is required").WithField("updatedBy")
	}
	if reason == "" {
		reason = "role updated"
	}

	var updated *RoleAssignment
	audit := GetAuditContext(ctx)
	now := time.Now()

	err := s.withTx(ctx, func(db dbkit.IDB) error {
		current, err := getAssignmentForUpdate(ctx, db, assignmentID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return NewError(ErrValidation, "inactive assignments are terminal and cannot be modified").
				WithAssignment(assignmentID)
		}

		merged := *current
		if updates.Role != nil {
			merged.Role = *updates.Role
		}
		if updates.Scope != nil {
			merged.Scope = *updates.Scope
		}
		if updates.EventIDs != nil {
			merged.EventIDs = updates.EventIDs
		}
		if updates.ClearExpiry {
			merged.ExpiresAt = nil
		} else if updates.ExpiresAt != nil {
			merged.ExpiresAt = updates.ExpiresAt
		}
		if updates.CustomPermissions != nil {
			merged.CustomPermissions = updates.CustomPermissions
		}
		if updates.Notes != nil {
			merged.Notes = *updates.Notes
		}

		if _, err := s.resolveBasePermissions(ctx, merged.Role); err != nil {
			return err
		}
		if err := s.catalog.ValidatePermissions(merged.CustomPermissions); err != nil {
			return err
		}
		if err := validateAssignment(&merged); err != nil {
			return err
		}
		if merged.Scope == ScopeGlobal {
			merged.EventIDs = nil
		}

		merged.Version = current.Version + 1
		merged.UpdatedAt = now

		result, err := db.NewUpdate().Model(&merged).
			Column("role", "scope", "event_ids", "expires_at", "custom_permissions", "notes", "version", "updated_at").
			Where("id = ? AND version = ?", current.ID, current.Version).
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "UpdateRoleAssignment").Err(); err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return NewError(ErrConflict, "assignment was modified concurrently").
				WithAssignment(assignmentID)
		}

		entry := &RoleChangeAudit{
			ID:                  newID(),
			RoleAssignmentID:    current.ID,
			OrganizerID:         current.OrganizerID,
			Action:              string(AuditActionModified),
			ChangedBy:           updatedBy,
			ChangedAt:           now,
			Reason:              reason,
			PreviousRole:        current.Role,
			NewRole:             merged.Role,
			PreviousScope:       current.Scope,
			NewScope:            merged.Scope,
			PreviousPermissions: current.CustomPermissions,
			NewPermissions:      merged.CustomPermissions,
			IPAddress:           audit.IPAddress,
			UserAgent:           audit.UserAgent,
			RequestID:           audit.RequestID,
		}
		if err := s.appendAudit(ctx, db, entry); err != nil {
			return err
		}

		updated = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.enqueueNotification(ctx, updated.FollowerID, updated.OrganizerID, NotificationRoleModified, updated.ID)

	return updated, nil
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

// validateAssignment enforces the scope/eventIDs and expiry invariants on
// a fully merged assignment.
func validateAssignment(ra *RoleAssignment) error {
	switch ra.Scope {
	case ScopeGlobal:
		// event IDs are irrelevant and get cleared by the caller
	case ScopePerEvent:
		if len(ra.EventIDs) == 0 {
			return NewError(ErrInvalidScope, "per-event scope requires at least one event ID").
				WithField("eventIds").
				WithRole(ra.Role)
		}
	default:
		return NewError(ErrInvalidScope, fmt.Sprintf("unknown scope %q", ra.Scope)).
			WithField("scope")
	}

	if ra.ExpiresAt != nil && !ra.ExpiresAt.After(ra.AssignedAt) {
		return NewError(ErrInvalidExpiry, "expiry must be strictly after assignment time").
			WithField("expiresAt")
	}
	return nil
}

// resolveBasePermissions maps a role identifier to its base permission
// set: a catalog role config, or an active custom permission set
// referenced by ID.
func (s *Service) resolveBasePermissions(ctx context.Context, role string) ([]string, error) {
	if role == "" {
		return nil, NewError(ErrEmptyField, "role is required").WithField("role")
	}
	if cfg := s.catalog.GetRoleConfig(role); cfg != nil {
		return cfg.Permissions, nil
	}

	var set CustomPermissionSet
	err := s.db.NewSelect().Model(&set).
		Where("id = ? AND is_active = TRUE", role).
		Limit(1).Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(dbkit.WithErr1(err, "ResolveRole").Err()) {
			return nil, NewError(ErrInvalidRole, fmt.Sprintf("role %q is neither a catalog role nor an active permission set", role)).
				WithRole(role)
		}
		return nil, dbkit.WithErr1(err, "ResolveRole").Err()
	}
	return set.Permissions, nil
}

// getAssignmentForUpdate loads an assignment inside a mutation
// transaction.
func getAssignmentForUpdate(ctx context.Context, db dbkit.IDB, assignmentID string) (*RoleAssignment, error) {
	var assignment RoleAssignment
	err := db.NewSelect().Model(&assignment).Where("id = ?", assignmentID).Limit(1).Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(dbkit.WithErr1(err, "GetAssignmentForUpdate").Err()) {
			return nil, NewError(ErrNotFound, "role assignment not found").WithAssignment(assignmentID)
		}
		return nil, dbkit.WithErr1(err, "GetAssignmentForUpdate").Err()
	}
	return &assignment, nil
}

// deactivateAssignment flips IsActive under the version check. Both the
// explicit revoke path and the expiry reconciler go through here, so a
// record cannot be double-deactivated or clobber a concurrent patch.
func deactivateAssignment(ctx context.Context, db dbkit.IDB, assignment *RoleAssignment, now time.Time) error {
	result, err := db.NewUpdate().Model((*RoleAssignment)(nil)).
		Set("is_active = FALSE").
		Set("version = version + 1").
		Set("updated_at = ?", now).
		Where("id = ? AND version = ? AND is_active = TRUE", assignment.ID, assignment.Version).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "DeactivateAssignment").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrConflict, "assignment was modified concurrently").
			WithAssignment(assignment.ID)
	}
	assignment.IsActive = false
	assignment.Version++
	assignment.UpdatedAt = now
	return nil
}

// appendAudit writes one audit entry inside the caller's transaction.
// The trail is append-only: this is the only code path that touches it.
func (s *Service) appendAudit(ctx context.Context, db dbkit.IDB, entry *RoleChangeAudit) error {
	result, err := db.NewInsert().Model(entry).Exec(ctx)
	if err = dbkit.WithErr(result, err, "AppendAudit").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to append audit entry").
			WithAssignment(entry.RoleAssignmentID)
	}
	return nil
}
