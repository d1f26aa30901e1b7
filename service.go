package teamkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Service provides role assignment management, permission evaluation and
// the audit trail over a dbkit-managed database.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Domain failures surface as
// teamkit sentinels:
//
//	_, err := service.AssignRole(ctx, followerID, role, orgID, actorID, opts)
//	if err != nil {
//	    switch {
//	    case teamkit.IsValidation(err):
//	        // reject the request, the offending field is on *teamkit.Error
//	    case teamkit.IsNotFound(err):
//	        // unknown assignment / permission set
//	    case teamkit.IsConflict(err):
//	        // concurrent modification, re-read and retry
//	    }
//	}
type Service struct {
	db        dbkit.IDB
	catalog   *Catalog
	txMonitor *transactionMonitor
}

// NewService creates a new TeamKit service.
//
// Example:
//
//	catalog := teamkit.DefaultCatalog()
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := teamkit.NewService(catalog, db)
func NewService(catalog *Catalog, db dbkit.IDB) *Service {
	return &Service{
		db:        db,
		catalog:   catalog,
		txMonitor: newTransactionMonitor(),
	}
}

// Catalog returns the permission/role catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// ============================================================================
// AUDIT TRAIL
// ============================================================================

// GetAuditTrail retrieves audit entries for an organizer, newest first.
// The trail is the only source of historical truth: assignments reflect
// current state, the trail records every transition that produced it.
func (s *Service) GetAuditTrail(ctx context.Context, organizerID string, filter AuditTrailFilter) ([]RoleChangeAudit, error) {
	var entries []RoleChangeAudit
	q := s.db.NewSelect().Model(&entries).Where("organizer_id = ?", organizerID)
	if filter.AssignmentID != "" {
		q = q.Where("role_assignment_id = ?", filter.AssignmentID)
	}
	if filter.ChangedBy != "" {
		q = q.Where("changed_by = ?", filter.ChangedBy)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	if !filter.Since.IsZero() {
		q = q.Where("changed_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("changed_at <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("changed_at DESC", "id DESC")
	err := dbkit.WithErr1(q.Scan(ctx), "GetAuditTrail").Err()
	if err != nil {
		return nil, err
	}

	return entries, nil
}
