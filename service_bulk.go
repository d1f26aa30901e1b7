package teamkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
	"golang.org/x/sync/errgroup"
)

// defaultBulkWorkers bounds the fan-out of a bulk operation. Items touch
// disjoint records, so they parallelize safely; the per-record version
// check still guards against a concurrent single-item call racing on the
// same assignment.
const defaultBulkWorkers = 4

// ============================================================================
// BULK OPERATIONS
// ============================================================================

// BulkAssignRoles assigns one role to many followers in one logical
// operation. Execution is best-effort and non-atomic: every follower is
// attempted through the single-item AssignRole path, one item's failure
// never aborts or rolls back the others, and the returned operation
// carries itemized results once all items have been attempted.
func (s *Service) BulkAssignRoles(ctx context.Context, followerIDs []string, role, organizerID, executedBy string, opts AssignOptions) (*BulkRoleOperation, error) {
	if executedBy == "" {
		return nil, NewError(ErrEmptyField, "executed-by actor is required").WithField("executedBy")
	}

	op := &BulkRoleOperation{
		ID:          newID(),
		Type:        BulkOperationAssign,
		OrganizerID: organizerID,
		FollowerIDs: followerIDs,
		TargetRole:  role,
		TargetScope: opts.Scope,
		EventIDs:    opts.EventIDs,
		ExecutedBy:  executedBy,
		ExecutedAt:  time.Now(),
		Status:      BulkStatusInProgress,
	}
	if err := s.createBulkOperation(ctx, op); err != nil {
		return nil, err
	}

	itemErrs := make([]error, len(followerIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultBulkWorkers)
	for i, followerID := range followerIDs {
		g.Go(func() error {
			_, err := s.AssignRole(gctx, followerID, role, organizerID, executedBy, opts)
			itemErrs[i] = err
			return nil // item failures are collected, never abort the batch
		})
	}
	_ = g.Wait()

	results := &BulkResults{}
	for i, err := range itemErrs {
		if err != nil {
			results.Failed++
			results.Errors = append(results.Errors, fmt.Sprintf("failed to assign role to %s: %v", followerIDs[i], err))
			continue
		}
		results.Successful++
	}

	return s.finalizeBulkOperation(ctx, op, results)
}

// BulkRevokeRoles revokes many assignments in one logical operation,
// with the same best-effort, non-atomic semantics as BulkAssignRoles.
// Already-inactive assignments count as successes (RevokeRole is an
// idempotent no-op for them); unknown IDs count as failures.
func (s *Service) BulkRevokeRoles(ctx context.Context, assignmentIDs []string, revokedBy, reason string) (*BulkRoleOperation, error) {
	if revokedBy == "" {
		return nil, NewError(ErrEmptyField, "revoked-by actor is required").WithField("revokedBy")
	}

	op := &BulkRoleOperation{
		ID:         newID(),
		Type:       BulkOperationRevoke,
		ExecutedBy: revokedBy,
		ExecutedAt: time.Now(),
		Status:     BulkStatusInProgress,
	}

	// The organizer and follower list come from the targeted assignments.
	for _, id := range assignmentIDs {
		assignment, err := s.GetAssignment(ctx, id)
		if err != nil {
			continue
		}
		if op.OrganizerID == "" {
			op.OrganizerID = assignment.OrganizerID
		}
		op.FollowerIDs = append(op.FollowerIDs, assignment.FollowerID)
	}

	if err := s.createBulkOperation(ctx, op); err != nil {
		return nil, err
	}

	itemErrs := make([]error, len(assignmentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultBulkWorkers)
	for i, assignmentID := range assignmentIDs {
		g.Go(func() error {
			itemErrs[i] = s.RevokeRole(gctx, assignmentID, revokedBy, reason)
			return nil
		})
	}
	_ = g.Wait()

	results := &BulkResults{}
	for i, err := range itemErrs {
		if err != nil {
			results.Failed++
			results.Errors = append(results.Errors, fmt.Sprintf("failed to revoke assignment %s: %v", assignmentIDs[i], err))
			continue
		}
		results.Successful++
	}

	return s.finalizeBulkOperation(ctx, op, results)
}

// GetBulkOperations lists an organizer's bulk operations, newest first.
func (s *Service) GetBulkOperations(ctx context.Context, organizerID string) ([]BulkRoleOperation, error) {
	var ops []BulkRoleOperation
	err := dbkit.WithErr1(s.db.NewSelect().Model(&ops).
		Where("organizer_id = ?", organizerID).
		Order("executed_at DESC", "id DESC").
		Scan(ctx), "GetBulkOperations").Err()
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// GetBulkOperation retrieves one bulk operation by ID.
func (s *Service) GetBulkOperation(ctx context.Context, operationID string) (*BulkRoleOperation, error) {
	var op BulkRoleOperation
	err := s.db.NewSelect().Model(&op).Where("id = ?", operationID).Limit(1).Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(dbkit.WithErr1(err, "GetBulkOperation").Err()) {
			return nil, NewError(ErrNotFound, "bulk operation not found")
		}
		return nil, dbkit.WithErr1(err, "GetBulkOperation").Err()
	}
	return &op, nil
}

func (s *Service) createBulkOperation(ctx context.Context, op *BulkRoleOperation) error {
	result, err := s.db.NewInsert().Model(op).Exec(ctx)
	return dbkit.WithErr(result, err, "CreateBulkOperation").Err()
}

// finalizeBulkOperation stamps the terminal status and itemized results
// onto the parent record after every item has been attempted.
func (s *Service) finalizeBulkOperation(ctx context.Context, op *BulkRoleOperation, results *BulkResults) (*BulkRoleOperation, error) {
	op.Status = BulkStatusCompleted
	op.Results = results

	result, err := s.db.NewUpdate().Model(op).
		Column("status", "results").
		Where("id = ?", op.ID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "FinalizeBulkOperation").Err(); err != nil {
		return nil, err
	}
	return op, nil
}
