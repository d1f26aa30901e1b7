package teamkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAssignRoleLifecycle tests the grant path end to end
func TestAssignRoleLifecycle(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	t.Run("Global assignment", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleSalesAgent, organizerID, organizerID, AssignOptions{
			Scope: ScopeGlobal,
			Notes: "handles weekend sales",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, assignment.ID)
		assert.True(t, assignment.IsActive)
		assert.Equal(t, int64(1), assignment.Version)

		loaded, err := service.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, RoleSalesAgent, loaded.Role)
		assert.Equal(t, ScopeGlobal, loaded.Scope)
		assert.Empty(t, loaded.EventIDs)
		assert.Equal(t, "handles weekend sales", loaded.Notes)

		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, string(AuditActionAssigned), trail[0].Action)
		assert.Equal(t, organizerID, trail[0].ChangedBy)
		assert.Equal(t, RoleSalesAgent, trail[0].NewRole)
	})

	t.Run("Per-event assignment keeps its event list", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{
			Scope:    ScopePerEvent,
			EventIDs: []string{"event-1", "event-2"},
		})
		require.NoError(t, err)

		loaded, err := service.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, ScopePerEvent, loaded.Scope)
		assert.Equal(t, []string{"event-1", "event-2"}, loaded.EventIDs)
		assert.True(t, loaded.CoversEvent("event-1"))
		assert.False(t, loaded.CoversEvent("event-3"))
	})

	t.Run("Duplicate follower-role pairs are permitted", func(t *testing.T) {
		first, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)
		second, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{
			Scope:    ScopePerEvent,
			EventIDs: []string{"event-9"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Audit forensics come from context", func(t *testing.T) {
		reqCtx := WithAuditContext(ctx, AuditContext{
			IPAddress: "10.1.2.3",
			UserAgent: "teamkit-test/1.0",
			RequestID: "req-lifecycle",
		})

		assignment, err := service.AssignRole(reqCtx, followerID, RoleMarketingAssistant, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)

		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, "10.1.2.3", trail[0].IPAddress)
		assert.Equal(t, "teamkit-test/1.0", trail[0].UserAgent)
		assert.Equal(t, "req-lifecycle", trail[0].RequestID)
	})
}

// TestAssignRoleValidation tests grant rejection paths
func TestAssignRoleValidation(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	t.Run("Empty follower", func(t *testing.T) {
		_, err := service.AssignRole(ctx, "", RoleFollower, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		assert.ErrorIs(t, err, ErrEmptyField)
	})

	t.Run("Empty organizer", func(t *testing.T) {
		_, err := service.AssignRole(ctx, followerID, RoleFollower, "", organizerID, AssignOptions{Scope: ScopeGlobal})
		assert.ErrorIs(t, err, ErrEmptyField)
	})

	t.Run("Unknown role", func(t *testing.T) {
		_, err := service.AssignRole(ctx, followerID, "galactic_overlord", organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		assert.True(t, IsInvalidRole(err))
	})

	t.Run("Per-event scope without events", func(t *testing.T) {
		_, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: ScopePerEvent})
		assert.True(t, IsInvalidScope(err))
	})

	t.Run("Unknown scope", func(t *testing.T) {
		_, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: RoleScope("regional")})
		assert.True(t, IsInvalidScope(err))
	})

	t.Run("Expiry in the past", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		_, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{
			Scope:     ScopeGlobal,
			ExpiresAt: &past,
		})
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	})

	t.Run("Unknown custom permission", func(t *testing.T) {
		_, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{
			Scope:             ScopeGlobal,
			CustomPermissions: []string{"launch_rockets"},
		})
		assert.ErrorIs(t, err, ErrInvalidPermission)
	})

	t.Run("Failed grants leave no audit entries", func(t *testing.T) {
		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter())
		require.NoError(t, err)
		assert.Empty(t, trail)
	})
}

// TestRevokeRole tests the revoke path
func TestRevokeRole(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	assignment, err := service.AssignRole(ctx, followerID, RoleSalesAgent, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)

	t.Run("Revoke deactivates and audits", func(t *testing.T) {
		err := service.RevokeRole(ctx, assignment.ID, organizerID, "season over")
		require.NoError(t, err)

		loaded, err := service.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.False(t, loaded.IsActive)
		assert.Equal(t, int64(2), loaded.Version)

		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
		require.NoError(t, err)
		require.Len(t, trail, 2)
		assert.Equal(t, string(AuditActionRevoked), trail[0].Action)
		assert.Equal(t, "season over", trail[0].Reason)
		assert.Equal(t, RoleSalesAgent, trail[0].PreviousRole)
	})

	t.Run("Revoking again is an idempotent no-op", func(t *testing.T) {
		err := service.RevokeRole(ctx, assignment.ID, organizerID, "again")
		require.NoError(t, err)

		// No extra audit entry, no version bump
		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
		require.NoError(t, err)
		assert.Len(t, trail, 2)

		loaded, err := service.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), loaded.Version)
	})

	t.Run("Unknown assignment", func(t *testing.T) {
		err := service.RevokeRole(ctx, "no-such-assignment", organizerID, "")
		assert.True(t, IsNotFound(err))
	})

	t.Run("Empty actor", func(t *testing.T) {
		err := service.RevokeRole(ctx, assignment.ID, "", "")
		assert.ErrorIs(t, err, ErrEmptyField)
	})
}

// TestUpdateRoleAssignment tests the modify path
func TestUpdateRoleAssignment(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	t.Run("Partial patch", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{
			Scope: ScopeGlobal,
			Notes: "original",
		})
		require.NoError(t, err)

		newRole := RoleSalesAgent
		updated, err := service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{
			Role: &newRole,
		}, organizerID, "promotion")
		require.NoError(t, err)

		assert.Equal(t, RoleSalesAgent, updated.Role)
		assert.Equal(t, "original", updated.Notes) // untouched fields survive
		assert.Equal(t, int64(2), updated.Version)

		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
		require.NoError(t, err)
		require.Len(t, trail, 2)
		assert.Equal(t, string(AuditActionModified), trail[0].Action)
		assert.Equal(t, RoleEventStaff, trail[0].PreviousRole)
		assert.Equal(t, RoleSalesAgent, trail[0].NewRole)
		assert.Equal(t, "promotion", trail[0].Reason)
	})

	t.Run("Scope change to global clears events", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{
			Scope:    ScopePerEvent,
			EventIDs: []string{"event-1"},
		})
		require.NoError(t, err)

		global := ScopeGlobal
		updated, err := service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{
			Scope: &global,
		}, organizerID, "")
		require.NoError(t, err)
		assert.Equal(t, ScopeGlobal, updated.Scope)
		assert.Empty(t, updated.EventIDs)
	})

	t.Run("Invalid merged state is rejected", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)

		perEvent := ScopePerEvent
		_, err = service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{
			Scope: &perEvent, // no event IDs supplied
		}, organizerID, "")
		assert.True(t, IsInvalidScope(err))

		// Rejected patch must not have touched the row
		loaded, err := service.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, ScopeGlobal, loaded.Scope)
		assert.Equal(t, int64(1), loaded.Version)
	})

	t.Run("ClearExpiry removes the expiry", func(t *testing.T) {
		expiry := time.Now().Add(24 * time.Hour)
		assignment, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{
			Scope:     ScopeGlobal,
			ExpiresAt: &expiry,
		})
		require.NoError(t, err)

		updated, err := service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{
			ClearExpiry: true,
		}, organizerID, "")
		require.NoError(t, err)
		assert.Nil(t, updated.ExpiresAt)
	})

	t.Run("Inactive assignments are terminal", func(t *testing.T) {
		assignment, err := service.AssignRole(ctx, followerID, RoleFollower, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)
		require.NoError(t, service.RevokeRole(ctx, assignment.ID, organizerID, ""))

		notes := "too late"
		_, err = service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{
			Notes: &notes,
		}, organizerID, "")
		assert.True(t, IsValidation(err))
	})

	t.Run("Unknown assignment", func(t *testing.T) {
		notes := "n"
		_, err := service.UpdateRoleAssignment(ctx, "no-such-assignment", AssignmentUpdate{Notes: &notes}, organizerID, "")
		assert.True(t, IsNotFound(err))
	})
}

// TestAuditTrailInvariant tests that every mutation produces exactly one
// audit entry
func TestAuditTrailInvariant(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	assignment, err := service.AssignRole(ctx, followerID, RoleSalesAgent, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)

	notes := "updated once"
	_, err = service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{Notes: &notes}, organizerID, "")
	require.NoError(t, err)

	notes = "updated twice"
	_, err = service.UpdateRoleAssignment(ctx, assignment.ID, AssignmentUpdate{Notes: &notes}, organizerID, "")
	require.NoError(t, err)

	require.NoError(t, service.RevokeRole(ctx, assignment.ID, organizerID, "done"))

	// 4 successful mutations, 4 entries, newest first
	trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(assignment.ID))
	require.NoError(t, err)
	require.Len(t, trail, 4)
	assert.Equal(t, string(AuditActionRevoked), trail[0].Action)
	assert.Equal(t, string(AuditActionModified), trail[1].Action)
	assert.Equal(t, string(AuditActionModified), trail[2].Action)
	assert.Equal(t, string(AuditActionAssigned), trail[3].Action)
}

// TestGetAuditTrailFiltering tests audit query clauses
func TestGetAuditTrailFiltering(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")
	followerID := uniqueID(t, "follower")

	a1, err := service.AssignRole(ctx, followerID, RoleSalesAgent, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)
	_, err = service.AssignRole(ctx, followerID, RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)
	require.NoError(t, service.RevokeRole(ctx, a1.ID, organizerID, ""))

	t.Run("By action", func(t *testing.T) {
		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAction(AuditActionRevoked))
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, a1.ID, trail[0].RoleAssignmentID)
	})

	t.Run("By assignment", func(t *testing.T) {
		trail, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithAssignment(a1.ID))
		require.NoError(t, err)
		assert.Len(t, trail, 2)
	})

	t.Run("Pagination", func(t *testing.T) {
		page1, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithPagination(2, 0))
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := service.GetAuditTrail(ctx, organizerID, NewAuditTrailFilter().WithPagination(2, 2))
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})

	t.Run("Other organizers see nothing", func(t *testing.T) {
		trail, err := service.GetAuditTrail(ctx, uniqueID(t, "other-org"), NewAuditTrailFilter())
		require.NoError(t, err)
		assert.Empty(t, trail)
	})
}
