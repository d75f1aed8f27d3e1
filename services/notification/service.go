package notification

import (
	"errors"
	"time"

	notificationRepo "doerhub/database/repository/notification"
	"doerhub/models"
	"doerhub/realtime"
	"doerhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a notification does not exist or is not
// addressed to the caller.
var ErrNotFound = errors.New("notification not found")

// DefaultListLimit caps ListForUser when the caller passes no limit.
const DefaultListLimit = 50

type Publisher interface {
	Publish(room string, event realtime.Event)
}

// NotificationService stores notifications and mirrors them to live sessions.
type NotificationService interface {
	// Broadcast stores a single notification visible to every user and
	// pushes it to the shared notifications channel.
	Broadcast(message string, extra map[string]any) (*models.Notification, error)
	// ListForUser returns the caller's personal notifications merged with
	// broadcasts, newest first.
	ListForUser(userID string, limit int64) ([]models.Notification, error)
	// MarkRead marks one of the caller's notifications as read.
	MarkRead(id, userID string) error
	// MarkAllRead marks all of the caller's personal notifications as read.
	MarkAllRead(userID string) error
}

type DefaultNotificationService struct {
	Notifications notificationRepo.NotificationRepository
	Events        Publisher
}

func (s *DefaultNotificationService) Broadcast(message string, extra map[string]any) (*models.Notification, error) {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		Type:      models.NotificationTypeBroadcast,
		Message:   message,
		Extra:     extra,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Notifications.Create(notification); err != nil {
		return nil, err
	}

	// Live delivery is best-effort; the stored row is what ListForUser
	// serves to users who were offline.
	data := map[string]any{
		"id":      notification.ID,
		"message": notification.Message,
	}
	for k, v := range extra {
		data[k] = v
	}
	s.Events.Publish(realtime.NotificationsRoom, realtime.Event{
		Type: realtime.EventNotification,
		Data: data,
	})
	utils.GetLogger().Info("broadcast notification sent", zap.String("id", notification.ID))

	return notification, nil
}

func (s *DefaultNotificationService) ListForUser(userID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.Notifications.ListForUser(userID, limit)
}

func (s *DefaultNotificationService) MarkRead(id, userID string) error {
	ok, err := s.Notifications.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *DefaultNotificationService) MarkAllRead(userID string) error {
	return s.Notifications.MarkAllRead(userID)
}
