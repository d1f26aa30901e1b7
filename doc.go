// Package teamkit provides role-based access control for event organizers
// and their teams.
//
// TeamKit lets an organizer grant operational roles (sales agent, event
// staff, marketing assistant, ...) to followers, scope each grant globally
// or to an explicit set of events, time-box it with an expiry, and revoke
// it. Every state change is recorded in an append-only audit trail.
//
// # Core Concepts
//
// Role: a named bundle of permission IDs defined in the Catalog. TeamKit
// ships a default catalog with the predefined roles and a permission set
// grouped by category (events, financial, attendees, marketing, team,
// settings). Organizers can additionally define reusable custom permission
// sets and assign them like roles.
//
// Assignment: a grant of one role to one follower by one organizer. A
// follower can hold several concurrent assignments (different roles,
// different event sets) from the same organizer. Assignments are never
// deleted; revocation and expiry flip them to inactive, which is terminal.
//
// Scope: either ScopeGlobal (organizer-wide) or ScopePerEvent, in which
// case the assignment carries a non-empty list of event IDs.
//
// Permission resolution: flat set union of the role's base permissions and
// the assignment's additional custom permissions. No hierarchy, no
// deny-override.
//
// # Basic Usage
//
//	// 1. Build the catalog (at application startup)
//	catalog := teamkit.DefaultCatalog()
//
//	// 2. Create the service
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := teamkit.NewService(catalog, db)
//
//	// 3. Run migrations
//	db.Migrate(ctx, teamkit.NewMigrationService(service).Migrations())
//
//	// 4. Assign a role
//	expires := time.Now().AddDate(0, 0, 30)
//	assignment, err := service.AssignRole(ctx, "follower-1", teamkit.RoleSalesAgent,
//	    "org-1", "org-1", teamkit.AssignOptions{
//	        Scope:     teamkit.ScopeGlobal,
//	        ExpiresAt: &expires,
//	        Notes:     "seasonal hire",
//	    })
//
//	// 5. Check permissions
//	ok, err := service.HasPermission(ctx, assignment.ID, "manage_pricing")
//
//	// 6. Revoke
//	err = service.RevokeRole(ctx, assignment.ID, "org-1", "no longer needed")
//
// # Expiry Reconciliation
//
// Assignments past their ExpiresAt are reported as expired by reads
// immediately, but IsActive only flips once ReconcileExpired runs. The
// reconciler is never triggered implicitly by a read; wire it to whatever
// scheduler the application already has:
//
//	deactivated, err := service.ReconcileExpired(ctx, "org-1")
//
// ReconcileExpired is idempotent: a second pass with no clock change
// deactivates nothing and writes no audit entries.
//
// # Bulk Operations
//
// BulkAssignRoles and BulkRevokeRoles fan each item out through the
// single-item path with a bounded worker pool. Execution is best-effort
// and non-atomic: one item's failure never rolls back the others, and the
// returned BulkRoleOperation itemizes successes, failures and error
// strings.
//
// # Audit Log
//
// Exactly one audit entry is written per successful assignment transition
// (assigned, modified, revoked, expired), in the same database transaction
// as the mutation itself. Failed attempts write nothing. The trail also
// captures request forensics (IP, user agent, request ID) when the caller
// stamps them into the context with WithAuditContext.
package teamkit
