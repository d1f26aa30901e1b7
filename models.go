package teamkit

import (
	"time"

	"github.com/uptrace/bun"
)

// RoleScope describes where a role assignment applies.
type RoleScope string

const (
	// ScopeGlobal applies the assignment organizer-wide.
	ScopeGlobal RoleScope = "global"
	// ScopePerEvent restricts the assignment to an explicit event list.
	ScopePerEvent RoleScope = "per_event"
)

// Predefined roles shipped with the default catalog.
const (
	RoleFollower           = "follower"
	RoleSalesAgent         = "sales_agent"
	RoleEventStaff         = "event_staff"
	RoleMarketingAssistant = "marketing_assistant"
)

// PermissionCategory groups permissions in the catalog.
type PermissionCategory string

const (
	CategoryEvents    PermissionCategory = "events"
	CategoryFinancial PermissionCategory = "financial"
	CategoryAttendees PermissionCategory = "attendees"
	CategoryMarketing PermissionCategory = "marketing"
	CategoryTeam      PermissionCategory = "team"
	CategorySettings  PermissionCategory = "settings"
)

// Permission is immutable reference data describing a single grantable
// capability. Permissions live in the Catalog and are not persisted.
type Permission struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    PermissionCategory `json:"category"`
}

// RoleConfig is a named bundle of permission IDs. Predefined configs are
// seeded at startup; organizer-defined ones carry IsCustom=true.
type RoleConfig struct {
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	IsCustom    bool     `json:"is_custom"`
}

// RoleAssignment is a grant of one role to one follower by one organizer.
// Assignments are soft-deleted only: IsActive=false is terminal and the
// row is kept forever so audit references stay valid.
type RoleAssignment struct {
	bun.BaseModel `bun:"table:role_assignments,alias:ra"`

	ID          string     `bun:"id,pk"`
	FollowerID  string     `bun:"follower_id,notnull"`
	OrganizerID string     `bun:"organizer_id,notnull"`
	Role        string     `bun:"role,notnull"`
	Scope       RoleScope  `bun:"scope,notnull"`
	EventIDs    []string   `bun:"event_ids,type:text[]"` // non-empty iff Scope == ScopePerEvent
	AssignedBy  string     `bun:"assigned_by,notnull"`
	AssignedAt  time.Time  `bun:"assigned_at,notnull"`
	ExpiresAt   *time.Time `bun:"expires_at,nullzero"` // nil = never expires
	IsActive    bool       `bun:"is_active,notnull"`

	// CustomPermissions are additive on top of the role's base set.
	CustomPermissions []string `bun:"custom_permissions,type:text[]"`
	Notes             string   `bun:"notes"`

	// Version is the optimistic-concurrency counter. Every mutation runs
	// WHERE id = ? AND version = ? and bumps it; a miss on an existing
	// row surfaces as ErrConflict.
	Version   int64     `bun:"version,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// IsExpired reports whether the assignment's expiry has passed at the
// given instant, regardless of whether reconciliation has run yet.
func (ra *RoleAssignment) IsExpired(now time.Time) bool {
	return ra.ExpiresAt != nil && now.After(*ra.ExpiresAt)
}

// IsCurrentlyActive reports whether the assignment should be treated as
// active: marked active and not past expiry. An expired-but-unreconciled
// assignment is not currently active.
func (ra *RoleAssignment) IsCurrentlyActive(now time.Time) bool {
	return ra.IsActive && !ra.IsExpired(now)
}

// ExpiresWithin reports whether the assignment is active with an expiry
// strictly between now and now+window.
func (ra *RoleAssignment) ExpiresWithin(now time.Time, window time.Duration) bool {
	if !ra.IsActive || ra.ExpiresAt == nil {
		return false
	}
	return ra.ExpiresAt.After(now) && ra.ExpiresAt.Before(now.Add(window))
}

// CoversEvent reports whether the assignment applies to an event: global
// assignments cover everything, per-event ones only their listed events.
func (ra *RoleAssignment) CoversEvent(eventID string) bool {
	if ra.Scope == ScopeGlobal {
		return true
	}
	for _, id := range ra.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// AuditAction represents the type of assignment transition recorded.
type AuditAction string

const (
	AuditActionAssigned AuditAction = "assigned"
	AuditActionRevoked  AuditAction = "revoked"
	AuditActionModified AuditAction = "modified"
	AuditActionExpired  AuditAction = "expired"
)

// RoleChangeAudit records one assignment state transition. The table is
// append-only; rows are never updated or deleted.
type RoleChangeAudit struct {
	bun.BaseModel `bun:"table:role_change_audit,alias:rca"`

	ID               string    `bun:"id,pk"`
	RoleAssignmentID string    `bun:"role_assignment_id,notnull"`
	OrganizerID      string    `bun:"organizer_id,notnull"`
	Action           string    `bun:"action,notnull"`
	ChangedBy        string    `bun:"changed_by,notnull"`
	ChangedAt        time.Time `bun:"changed_at,notnull"`
	Reason           string    `bun:"reason"`

	// Previous/new values of the fields a transition can touch.
	PreviousRole        string    `bun:"previous_role"`
	NewRole             string    `bun:"new_role"`
	PreviousScope       RoleScope `bun:"previous_scope"`
	NewScope            RoleScope `bun:"new_scope"`
	PreviousPermissions []string  `bun:"previous_permissions,type:text[]"`
	NewPermissions      []string  `bun:"new_permissions,type:text[]"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`
}

// CustomPermissionSet is an organizer-defined, reusable permission bundle.
// Deletion is modeled as IsActive=false so assignments referencing the set
// keep resolving historically.
type CustomPermissionSet struct {
	bun.BaseModel `bun:"table:custom_permission_sets,alias:cps"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Permissions []string  `bun:"permissions,type:text[]"`
	CreatedBy   string    `bun:"created_by,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	IsActive    bool      `bun:"is_active,notnull"`
}

// BulkOperationType distinguishes bulk requests.
type BulkOperationType string

const (
	BulkOperationAssign BulkOperationType = "assign"
	BulkOperationRevoke BulkOperationType = "revoke"
)

// BulkOperationStatus tracks a bulk request's lifecycle.
type BulkOperationStatus string

const (
	BulkStatusPending    BulkOperationStatus = "pending"
	BulkStatusInProgress BulkOperationStatus = "in_progress"
	BulkStatusCompleted  BulkOperationStatus = "completed"
	BulkStatusFailed     BulkOperationStatus = "failed"
)

// BulkResults itemizes the outcome of a bulk operation once every item
// has been attempted.
type BulkResults struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// BulkRoleOperation represents one batch assign/revoke request with
// per-item outcome tracking. Items are independent sub-transactions: a
// completed operation may still carry failures in Results.
type BulkRoleOperation struct {
	bun.BaseModel `bun:"table:bulk_role_operations,alias:bro"`

	ID          string              `bun:"id,pk"`
	Type        BulkOperationType   `bun:"type,notnull"`
	OrganizerID string              `bun:"organizer_id,notnull"`
	FollowerIDs []string            `bun:"follower_ids,type:text[]"`
	TargetRole  string              `bun:"target_role"`
	TargetScope RoleScope           `bun:"target_scope"`
	EventIDs    []string            `bun:"event_ids,type:text[]"`
	ExecutedBy  string              `bun:"executed_by,notnull"`
	ExecutedAt  time.Time           `bun:"executed_at,notnull"`
	Status      BulkOperationStatus `bun:"status,notnull"`
	Results     *BulkResults        `bun:"results,type:jsonb"`
}

// NotificationType identifies the transition a notification announces.
type NotificationType string

const (
	NotificationRoleAssigned NotificationType = "role_assigned"
	NotificationRoleRevoked  NotificationType = "role_revoked"
	NotificationRoleModified NotificationType = "role_modified"
	NotificationRoleExpired  NotificationType = "role_expired"
)

// RoleNotification is a fire-and-forget side effect of an assignment
// transition, enqueued for an external delivery subsystem.
type RoleNotification struct {
	bun.BaseModel `bun:"table:role_notifications,alias:rn"`

	ID               string           `bun:"id,pk"`
	FollowerID       string           `bun:"follower_id,notnull"`
	OrganizerID      string           `bun:"organizer_id,notnull"`
	Type             NotificationType `bun:"type,notnull"`
	RoleAssignmentID string           `bun:"role_assignment_id,notnull"`
	SentAt           time.Time        `bun:"sent_at,notnull"`
	Acknowledged     bool             `bun:"acknowledged,notnull"`
	AcknowledgedAt   *time.Time       `bun:"acknowledged_at,nullzero"`
}

// RoleAnalytics summarizes the assignment set for an organizer at call
// time. Distributions cover currently active assignments only.
type RoleAnalytics struct {
	TotalAssignments   int                `json:"total_assignments"`
	ActiveAssignments  int                `json:"active_assignments"`
	ExpiredAssignments int                `json:"expired_assignments"`
	RoleDistribution   map[string]int     `json:"role_distribution"`
	ScopeDistribution  map[RoleScope]int  `json:"scope_distribution"`
	AssignmentTrends   AssignmentTrends   `json:"assignment_trends"`
	TopAssigners       []AssignerActivity `json:"top_assigners"`
}

// AssignmentTrends buckets assignment creation counts by recency: the
// last 7 days, last 4 weeks and last 12 months, oldest bucket first.
type AssignmentTrends struct {
	Daily   []int `json:"daily"`
	Weekly  []int `json:"weekly"`
	Monthly []int `json:"monthly"`
}

// AssignerActivity counts assignments performed by one actor.
type AssignerActivity struct {
	UserID           string `json:"user_id"`
	TotalAssignments int    `json:"total_assignments"`
}
