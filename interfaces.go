package teamkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// AssignmentManager defines the single-item assignment lifecycle interface
type AssignmentManager interface {
	AssignRole(ctx context.Context, followerID, role, organizerID, assignedBy string, opts AssignOptions) (*RoleAssignment, error)
	RevokeRole(ctx context.Context, assignmentID, revokedBy, reason string) error
	UpdateRoleAssignment(ctx context.Context, assignmentID string, updates AssignmentUpdate, updatedBy, reason string) (*RoleAssignment, error)
	GetAssignments(ctx context.Context, organizerID string, filter AssignmentFilter) ([]RoleAssignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (*RoleAssignment, error)
}

// BulkCoordinator defines the bulk operations interface
type BulkCoordinator interface {
	BulkAssignRoles(ctx context.Context, followerIDs []string, role, organizerID, executedBy string, opts AssignOptions) (*BulkRoleOperation, error)
	BulkRevokeRoles(ctx context.Context, assignmentIDs []string, revokedBy, reason string) (*BulkRoleOperation, error)
	GetBulkOperations(ctx context.Context, organizerID string) ([]BulkRoleOperation, error)
}

// ExpiryReconciler defines the expiry reconciliation interface
type ExpiryReconciler interface {
	ReconcileExpired(ctx context.Context, organizerID string) ([]RoleAssignment, error)
	GetExpiringAssignments(ctx context.Context, organizerID string, daysAhead int) ([]RoleAssignment, error)
}

// AccessEvaluator defines the permission evaluation interface
type AccessEvaluator interface {
	HasPermission(ctx context.Context, assignmentID, permissionID string) (bool, error)
	ResolvePermissions(ctx context.Context, assignmentID string) ([]string, error)
	GetEvaluator(ctx context.Context, assignmentID string) (*Evaluator, error)
}

// AuditReader defines the audit trail query interface
type AuditReader interface {
	GetAuditTrail(ctx context.Context, organizerID string, filter AuditTrailFilter) ([]RoleChangeAudit, error)
}

// AnalyticsProvider defines the analytics interface
type AnalyticsProvider interface {
	GetRoleAnalytics(ctx context.Context, organizerID string) (*RoleAnalytics, error)
}

// PermissionSetManager defines the custom permission set interface
type PermissionSetManager interface {
	CreatePermissionSet(ctx context.Context, name, description string, permissions []string, createdBy string) (*CustomPermissionSet, error)
	GetPermissionSets(ctx context.Context, organizerID string) ([]CustomPermissionSet, error)
	GetPermissionSet(ctx context.Context, setID string) (*CustomPermissionSet, error)
	DeletePermissionSet(ctx context.Context, setID string) error
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
