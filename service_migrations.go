package teamkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for TeamKit.
// Use dbkit.Migrate(ctx, service.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, service.Migrations()) to check status.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "teamkit-001",
			Description: "Create role_assignments table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_assignments (
                    id TEXT PRIMARY KEY,
                    follower_id TEXT NOT NULL,
                    organizer_id TEXT NOT NULL,
                    role TEXT NOT NULL,
                    scope TEXT NOT NULL,
                    event_ids TEXT[],
                    assigned_by TEXT NOT NULL,
                    assigned_at TIMESTAMPTZ NOT NULL,
                    expires_at TIMESTAMPTZ,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE,
                    custom_permissions TEXT[],
                    notes TEXT,
                    version BIGINT NOT NULL DEFAULT 1,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                );
                CREATE INDEX IF NOT EXISTS idx_role_assignments_organizer
                    ON role_assignments (organizer_id, is_active);
                CREATE INDEX IF NOT EXISTS idx_role_assignments_expiry
                    ON role_assignments (organizer_id, expires_at)
                    WHERE is_active AND expires_at IS NOT NULL`,
		},
		{
			ID:          "teamkit-002",
			Description: "Create role_change_audit table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_change_audit (
                    id TEXT PRIMARY KEY,
                    role_assignment_id TEXT NOT NULL,
                    organizer_id TEXT NOT NULL,
                    action TEXT NOT NULL,
                    changed_by TEXT NOT NULL,
                    changed_at TIMESTAMPTZ NOT NULL,
                    reason TEXT,
                    previous_role TEXT,
                    new_role TEXT,
                    previous_scope TEXT,
                    new_scope TEXT,
                    previous_permissions TEXT[],
                    new_permissions TEXT[],
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT
                );
                CREATE INDEX IF NOT EXISTS idx_role_change_audit_assignment
                    ON role_change_audit (role_assignment_id, changed_at);
                CREATE INDEX IF NOT EXISTS idx_role_change_audit_organizer
                    ON role_change_audit (organizer_id, changed_at)`,
		},
		{
			ID:          "teamkit-003",
			Description: "Create custom_permission_sets table",
			SQL: `
                CREATE TABLE IF NOT EXISTS custom_permission_sets (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    description TEXT,
                    permissions TEXT[],
                    created_by TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE
                );
                CREATE INDEX IF NOT EXISTS idx_custom_permission_sets_owner
                    ON custom_permission_sets (created_by, is_active)`,
		},
		{
			ID:          "teamkit-004",
			Description: "Create bulk_role_operations table",
			SQL: `
                CREATE TABLE IF NOT EXISTS bulk_role_operations (
                    id TEXT PRIMARY KEY,
                    type TEXT NOT NULL,
                    organizer_id TEXT NOT NULL DEFAULT '',
                    follower_ids TEXT[],
                    target_role TEXT,
                    target_scope TEXT,
                    event_ids TEXT[],
                    executed_by TEXT NOT NULL,
                    executed_at TIMESTAMPTZ NOT NULL,
                    status TEXT NOT NULL,
                    results JSONB
                );
                CREATE INDEX IF NOT EXISTS idx_bulk_role_operations_organizer
                    ON bulk_role_operations (organizer_id, executed_at)`,
		},
		{
			ID:          "teamkit-005",
			Description: "Create role_notifications table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_notifications (
                    id TEXT PRIMARY KEY,
                    follower_id TEXT NOT NULL,
                    organizer_id TEXT NOT NULL,
                    type TEXT NOT NULL,
                    role_assignment_id TEXT NOT NULL,
                    sent_at TIMESTAMPTZ NOT NULL,
                    acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
                    acknowledged_at TIMESTAMPTZ
                );
                CREATE INDEX IF NOT EXISTS idx_role_notifications_follower
                    ON role_notifications (follower_id, acknowledged, sent_at)`,
		},
	}
}
