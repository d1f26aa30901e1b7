package teamkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// CUSTOM PERMISSION SETS
// ============================================================================

// CreatePermissionSet registers an organizer-defined permission bundle.
// The set can then be assigned like a role by passing its ID to
// AssignRole. Every permission ID must exist in the catalog.
func (s *Service) CreatePermissionSet(ctx context.Context, name, description string, permissions []string, createdBy string) (*CustomPermissionSet, error) {
	if name == "" {
		return nil, NewError(ErrEmptyField, "permission set name is required").WithField("name")
	}
	if createdBy == "" {
		return nil, NewError(ErrEmptyField, "created-by actor is required").WithField("createdBy")
	}
	if err := s.catalog.ValidatePermissions(permissions); err != nil {
		return nil, err
	}

	set := &CustomPermissionSet{
		ID:          newID(),
		Name:        name,
		Description: description,
		Permissions: permissions,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
		IsActive:    true,
	}

	result, err := s.db.NewInsert().Model(set).Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreatePermissionSet").Err(); err != nil {
		return nil, err
	}

	return set, nil
}

// GetPermissionSets lists an organizer's active permission sets.
// Soft-deleted sets are excluded; use GetAllPermissionSets to include
// them.
func (s *Service) GetPermissionSets(ctx context.Context, organizerID string) ([]CustomPermissionSet, error) {
	return s.listPermissionSets(ctx, organizerID, true)
}

// GetAllPermissionSets lists an organizer's permission sets including
// soft-deleted ones, for audit-adjacent views.
func (s *Service) GetAllPermissionSets(ctx context.Context, organizerID string) ([]CustomPermissionSet, error) {
	return s.listPermissionSets(ctx, organizerID, false)
}

func (s *Service) listPermissionSets(ctx context.Context, organizerID string, activeOnly bool) ([]CustomPermissionSet, error) {
	var sets []CustomPermissionSet
	q := s.db.NewSelect().Model(&sets).Where("created_by = ?", organizerID)
	if activeOnly {
		q = q.Where("is_active = TRUE")
	}
	q = q.Order("created_at DESC", "id DESC")

	err := dbkit.WithErr1(q.Scan(ctx), "GetPermissionSets").Err()
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// GetPermissionSet retrieves one permission set by ID, active or not.
func (s *Service) GetPermissionSet(ctx context.Context, setID string) (*CustomPermissionSet, error) {
	var set CustomPermissionSet
	err := s.db.NewSelect().Model(&set).Where("id = ?", setID).Limit(1).Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(dbkit.WithErr1(err, "GetPermissionSet").Err()) {
			return nil, NewError(ErrNotFound, "permission set not found")
		}
		return nil, dbkit.WithErr1(err, "GetPermissionSet").Err()
	}
	return &set, nil
}

// DeletePermissionSet soft-deletes a permission set. The row is kept so
// assignments that referenced the set stay resolvable historically; new
// assignments can no longer use it. Deleting an already-inactive set is
// a no-op.
func (s *Service) DeletePermissionSet(ctx context.Context, setID string) error {
	result, err := s.db.NewUpdate().Model((*CustomPermissionSet)(nil)).
		Set("is_active = FALSE").
		Where("id = ?", setID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "DeletePermissionSet").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrNotFound, "permission set not found")
	}
	return nil
}
