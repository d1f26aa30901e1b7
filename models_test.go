package teamkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRoleAssignmentIsExpired tests expiry evaluation
func TestRoleAssignmentIsExpired(t *testing.T) {
	now := time.Now()

	t.Run("No expiry never expires", func(t *testing.T) {
		ra := RoleAssignment{ExpiresAt: nil}
		assert.False(t, ra.IsExpired(now))
	})

	t.Run("Future expiry", func(t *testing.T) {
		future := now.Add(time.Hour)
		ra := RoleAssignment{ExpiresAt: &future}
		assert.False(t, ra.IsExpired(now))
	})

	t.Run("Past expiry", func(t *testing.T) {
		past := now.Add(-time.Hour)
		ra := RoleAssignment{ExpiresAt: &past}
		assert.True(t, ra.IsExpired(now))
	})

	t.Run("Exact boundary is not expired", func(t *testing.T) {
		ra := RoleAssignment{ExpiresAt: &now}
		assert.False(t, ra.IsExpired(now))
	})
}

// TestRoleAssignmentIsCurrentlyActive tests derived activity
func TestRoleAssignmentIsCurrentlyActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("Active without expiry", func(t *testing.T) {
		ra := RoleAssignment{IsActive: true}
		assert.True(t, ra.IsCurrentlyActive(now))
	})

	t.Run("Active with future expiry", func(t *testing.T) {
		ra := RoleAssignment{IsActive: true, ExpiresAt: &future}
		assert.True(t, ra.IsCurrentlyActive(now))
	})

	t.Run("Expired but not yet reconciled is inactive", func(t *testing.T) {
		ra := RoleAssignment{IsActive: true, ExpiresAt: &past}
		assert.False(t, ra.IsCurrentlyActive(now))
	})

	t.Run("Deactivated is inactive regardless of expiry", func(t *testing.T) {
		ra := RoleAssignment{IsActive: false, ExpiresAt: &future}
		assert.False(t, ra.IsCurrentlyActive(now))
	})
}

// TestRoleAssignmentExpiresWithin tests the expiring-soon window
func TestRoleAssignmentExpiresWithin(t *testing.T) {
	now := time.Now()
	window := 7 * 24 * time.Hour

	t.Run("Inside window", func(t *testing.T) {
		soon := now.Add(3 * 24 * time.Hour)
		ra := RoleAssignment{IsActive: true, ExpiresAt: &soon}
		assert.True(t, ra.ExpiresWithin(now, window))
	})

	t.Run("Beyond window", func(t *testing.T) {
		far := now.Add(10 * 24 * time.Hour)
		ra := RoleAssignment{IsActive: true, ExpiresAt: &far}
		assert.False(t, ra.ExpiresWithin(now, window))
	})

	t.Run("Already past expiry", func(t *testing.T) {
		past := now.Add(-time.Hour)
		ra := RoleAssignment{IsActive: true, ExpiresAt: &past}
		assert.False(t, ra.ExpiresWithin(now, window))
	})

	t.Run("No expiry", func(t *testing.T) {
		ra := RoleAssignment{IsActive: true}
		assert.False(t, ra.ExpiresWithin(now, window))
	})

	t.Run("Inactive assignment", func(t *testing.T) {
		soon := now.Add(time.Hour)
		ra := RoleAssignment{IsActive: false, ExpiresAt: &soon}
		assert.False(t, ra.ExpiresWithin(now, window))
	})
}

// TestRoleAssignmentCoversEvent tests scope coverage
func TestRoleAssignmentCoversEvent(t *testing.T) {
	t.Run("Global covers everything", func(t *testing.T) {
		ra := RoleAssignment{Scope: ScopeGlobal}
		assert.True(t, ra.CoversEvent("event-1"))
		assert.True(t, ra.CoversEvent("anything"))
	})

	t.Run("Per-event covers listed events only", func(t *testing.T) {
		ra := RoleAssignment{Scope: ScopePerEvent, EventIDs: []string{"event-1", "event-2"}}
		assert.True(t, ra.CoversEvent("event-1"))
		assert.True(t, ra.CoversEvent("event-2"))
		assert.False(t, ra.CoversEvent("event-3"))
	})

	t.Run("Per-event with empty list covers nothing", func(t *testing.T) {
		ra := RoleAssignment{Scope: ScopePerEvent}
		assert.False(t, ra.CoversEvent("event-1"))
	})
}

// TestValidateAssignment tests the assignment invariants
func TestValidateAssignment(t *testing.T) {
	now := time.Now()

	t.Run("Global scope is valid without events", func(t *testing.T) {
		ra := &RoleAssignment{Scope: ScopeGlobal, AssignedAt: now}
		assert.NoError(t, validateAssignment(ra))
	})

	t.Run("Per-event scope requires events", func(t *testing.T) {
		ra := &RoleAssignment{Scope: ScopePerEvent, AssignedAt: now}
		err := validateAssignment(ra)
		assert.True(t, IsInvalidScope(err))
	})

	t.Run("Per-event scope with events is valid", func(t *testing.T) {
		ra := &RoleAssignment{Scope: ScopePerEvent, EventIDs: []string{"e1"}, AssignedAt: now}
		assert.NoError(t, validateAssignment(ra))
	})

	t.Run("Unknown scope is rejected", func(t *testing.T) {
		ra := &RoleAssignment{Scope: RoleScope("regional"), AssignedAt: now}
		err := validateAssignment(ra)
		assert.True(t, IsInvalidScope(err))
	})

	t.Run("Expiry after assignment is valid", func(t *testing.T) {
		future := now.Add(time.Hour)
		ra := &RoleAssignment{Scope: ScopeGlobal, AssignedAt: now, ExpiresAt: &future}
		assert.NoError(t, validateAssignment(ra))
	})

	t.Run("Expiry before assignment is rejected", func(t *testing.T) {
		past := now.Add(-time.Hour)
		ra := &RoleAssignment{Scope: ScopeGlobal, AssignedAt: now, ExpiresAt: &past}
		err := validateAssignment(ra)
		assert.ErrorIs(t, err, ErrInvalidExpiry)
		assert.True(t, IsValidation(err))
	})

	t.Run("Expiry equal to assignment time is rejected", func(t *testing.T) {
		ra := &RoleAssignment{Scope: ScopeGlobal, AssignedAt: now, ExpiresAt: &now}
		assert.ErrorIs(t, validateAssignment(ra), ErrInvalidExpiry)
	})
}

// TestAuditActionConstants tests audit action values
func TestAuditActionConstants(t *testing.T) {
	assert.Equal(t, "assigned", string(AuditActionAssigned))
	assert.Equal(t, "revoked", string(AuditActionRevoked))
	assert.Equal(t, "modified", string(AuditActionModified))
	assert.Equal(t, "expired", string(AuditActionExpired))
}

// TestScopeConstants tests scope values
func TestScopeConstants(t *testing.T) {
	assert.Equal(t, RoleScope("global"), ScopeGlobal)
	assert.Equal(t, RoleScope("per_event"), ScopePerEvent)
}

// TestNotificationTypeConstants tests notification type values
func TestNotificationTypeConstants(t *testing.T) {
	assert.Equal(t, "role_assigned", string(NotificationRoleAssigned))
	assert.Equal(t, "role_revoked", string(NotificationRoleRevoked))
	assert.Equal(t, "role_modified", string(NotificationRoleModified))
	assert.Equal(t, "role_expired", string(NotificationRoleExpired))
}

// TestBulkOperationConstants tests bulk type and status values
func TestBulkOperationConstants(t *testing.T) {
	assert.Equal(t, "assign", string(BulkOperationAssign))
	assert.Equal(t, "revoke", string(BulkOperationRevoke))
	assert.Equal(t, "pending", string(BulkStatusPending))
	assert.Equal(t, "in_progress", string(BulkStatusInProgress))
	assert.Equal(t, "completed", string(BulkStatusCompleted))
	assert.Equal(t, "failed", string(BulkStatusFailed))
}
