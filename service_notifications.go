package teamkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// NOTIFICATIONS
// ============================================================================

// enqueueNotification records a notification row for the external
// delivery subsystem. It runs after the assignment mutation has
// committed and is best-effort: callers ignore the error, a failed
// enqueue never rolls back the mutation that triggered it.
func (s *Service) enqueueNotification(ctx context.Context, followerID, organizerID string, typ NotificationType, assignmentID string) error {
	notification := &RoleNotification{
		ID:               newID(),
		FollowerID:       followerID,
		OrganizerID:      organizerID,
		Type:             typ,
		RoleAssignmentID: assignmentID,
		SentAt:           time.Now(),
		Acknowledged:     false,
	}

	result, err := s.db.NewInsert().Model(notification).Exec(ctx)
	return dbkit.WithErr(result, err, "EnqueueNotification").Err()
}

// GetNotifications lists a follower's notifications, newest first.
// Pass acknowledged to filter by acknowledgement state; nil returns all.
func (s *Service) GetNotifications(ctx context.Context, followerID string, acknowledged *bool) ([]RoleNotification, error) {
	var notifications []RoleNotification
	q := s.db.NewSelect().Model(&notifications).Where("follower_id = ?", followerID)
	if acknowledged != nil {
		q = q.Where("acknowledged = ?", *acknowledged)
	}
	q = q.Order("sent_at DESC", "id DESC")

	err := dbkit.WithErr1(q.Scan(ctx), "GetNotifications").Err()
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// AcknowledgeNotification marks a notification as read.
func (s *Service) AcknowledgeNotification(ctx context.Context, notificationID string) error {
	now := time.Now()
	result, err := s.db.NewUpdate().Model((*RoleNotification)(nil)).
		Set("acknowledged = TRUE").
		Set("acknowledged_at = ?", now).
		Where("id = ?", notificationID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "AcknowledgeNotification").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrNotFound, "notification not found")
	}
	return nil
}
