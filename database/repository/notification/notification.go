package notificationRepo

import "doerhub/models"

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	// Create inserts a new notification record.
	Create(n *models.Notification) error
	// ListForUser returns the union of the user's personal notifications and
	// broadcasts, newest first, capped at limit.
	ListForUser(userID string, limit int64) ([]models.Notification, error)
	// MarkRead flags one of the user's personal notifications as read.
	// Broadcast rows are never matched by this path.
	MarkRead(id, userID string) (bool, error)
	// MarkAllRead flags all of the user's unread personal notifications.
	MarkAllRead(userID string) error
}
