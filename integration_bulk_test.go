package teamkit

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBulkAssignRoles tests batch granting with partial failures
func TestBulkAssignRoles(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")

	t.Run("All items succeed", func(t *testing.T) {
		followers := []string{
			uniqueID(t, "f1"),
			uniqueID(t, "f2"),
			uniqueID(t, "f3"),
		}

		op, err := service.BulkAssignRoles(ctx, followers, RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)

		assert.Equal(t, BulkOperationAssign, op.Type)
		assert.Equal(t, BulkStatusCompleted, op.Status)
		require.NotNil(t, op.Results)
		assert.Equal(t, 3, op.Results.Successful)
		assert.Equal(t, 0, op.Results.Failed)
		assert.Empty(t, op.Results.Errors)

		assignments, err := service.GetAssignments(ctx, organizerID, NewAssignmentFilter().WithRoles(RoleEventStaff))
		require.NoError(t, err)
		assert.Len(t, assignments, 3)
	})

	t.Run("Partial failure never aborts the batch", func(t *testing.T) {
		good1 := uniqueID(t, "good1")
		good2 := uniqueID(t, "good2")
		good3 := uniqueID(t, "good3")

		// Two empty follower IDs fail validation, the rest proceed
		followers := []string{good1, "", good2, "", good3}

		op, err := service.BulkAssignRoles(ctx, followers, RoleSalesAgent, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)

		assert.Equal(t, BulkStatusCompleted, op.Status)
		require.NotNil(t, op.Results)
		assert.Equal(t, 3, op.Results.Successful)
		assert.Equal(t, 2, op.Results.Failed)
		assert.Len(t, op.Results.Errors, 2)

		for _, followerID := range []string{good1, good2, good3} {
			assignments, err := service.GetAssignments(ctx, organizerID, NewAssignmentFilter().WithRoles(RoleSalesAgent))
			require.NoError(t, err)
			var found bool
			for _, a := range assignments {
				if a.FollowerID == followerID {
					found = true
				}
			}
			assert.True(t, found, "follower %s should have been assigned", followerID)
		}
	})

	t.Run("Invalid role fails every item but completes the operation", func(t *testing.T) {
		followers := []string{uniqueID(t, "fa"), uniqueID(t, "fb")}

		op, err := service.BulkAssignRoles(ctx, followers, "galactic_overlord", organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)

		assert.Equal(t, BulkStatusCompleted, op.Status)
		assert.Equal(t, 0, op.Results.Successful)
		assert.Equal(t, 2, op.Results.Failed)
		for _, msg := range op.Results.Errors {
			assert.True(t, strings.Contains(msg, "invalid role"), "unexpected error text: %s", msg)
		}
	})

	t.Run("Empty actor is rejected up front", func(t *testing.T) {
		_, err := service.BulkAssignRoles(ctx, []string{uniqueID(t, "f")}, RoleFollower, organizerID, "", AssignOptions{Scope: ScopeGlobal})
		assert.ErrorIs(t, err, ErrEmptyField)
	})
}

// TestBulkRevokeRoles tests batch revocation
func TestBulkRevokeRoles(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")

	var assignmentIDs []string
	for i := 0; i < 3; i++ {
		a, err := service.AssignRole(ctx, uniqueID(t, "f"), RoleEventStaff, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
		require.NoError(t, err)
		assignmentIDs = append(assignmentIDs, a.ID)
	}

	t.Run("Mixed known, inactive and unknown targets", func(t *testing.T) {
		// Pre-revoke one so it exercises the idempotent no-op path
		require.NoError(t, service.RevokeRole(ctx, assignmentIDs[0], organizerID, "early"))

		targets := append(append([]string{}, assignmentIDs...), "no-such-assignment")
		op, err := service.BulkRevokeRoles(ctx, targets, organizerID, "offboarding")
		require.NoError(t, err)

		assert.Equal(t, BulkOperationRevoke, op.Type)
		assert.Equal(t, BulkStatusCompleted, op.Status)
		require.NotNil(t, op.Results)
		assert.Equal(t, 3, op.Results.Successful) // includes the idempotent item
		assert.Equal(t, 1, op.Results.Failed)     // the unknown ID
		assert.Equal(t, organizerID, op.OrganizerID)

		for _, id := range assignmentIDs {
			loaded, err := service.GetAssignment(ctx, id)
			require.NoError(t, err)
			assert.False(t, loaded.IsActive)
		}
	})
}

// TestGetBulkOperations tests bulk operation retrieval
func TestGetBulkOperations(t *testing.T) {
	if !requireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := setupTestDatabase(ctx)
	require.NoError(t, err)

	organizerID := uniqueID(t, "org")

	first, err := service.BulkAssignRoles(ctx, []string{uniqueID(t, "f")}, RoleFollower, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)
	second, err := service.BulkAssignRoles(ctx, []string{uniqueID(t, "f")}, RoleFollower, organizerID, organizerID, AssignOptions{Scope: ScopeGlobal})
	require.NoError(t, err)

	t.Run("Listing is newest first", func(t *testing.T) {
		ops, err := service.GetBulkOperations(ctx, organizerID)
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, second.ID, ops[0].ID)
		assert.Equal(t, first.ID, ops[1].ID)
	})

	t.Run("Results round-trip through storage", func(t *testing.T) {
		loaded, err := service.GetBulkOperation(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.Results)
		assert.Equal(t, 1, loaded.Results.Successful)
		assert.Equal(t, BulkStatusCompleted, loaded.Status)
	})

	t.Run("Unknown operation", func(t *testing.T) {
		_, err := service.GetBulkOperation(ctx, "no-such-operation")
		assert.True(t, IsNotFound(err))
	})
}
