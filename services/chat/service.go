package chat

import (
	"strings"
	"time"

	chatRepo "doerhub/database/repository/chat"
	notificationRepo "doerhub/database/repository/notification"
	providerRepo "doerhub/database/repository/provider"
	requestRepo "doerhub/database/repository/request"
	userRepo "doerhub/database/repository/user"
	"doerhub/models"
	"doerhub/realtime"
	"doerhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stored notification copies keep at most this many characters of a message.
const notificationPreviewLimit = 100

// DefaultHistoryLimit caps GetHistory when the caller passes no limit.
const DefaultHistoryLimit = 50

// Publisher is the injected pub/sub handle events are mirrored through.
type Publisher interface {
	Publish(room string, event realtime.Event)
}

// StartResult reports the room a conversation should continue in.
type StartResult struct {
	Room    *models.ChatRoom `json:"room"`
	Created bool             `json:"created"`
}

// ChatService persists conversations and mirrors them to live sessions.
type ChatService interface {
	// StartOrGetRoomForRequest returns the room attached to an accepted
	// service request, creating it if needed.
	StartOrGetRoomForRequest(serviceRequestID, callerID string) (*StartResult, error)
	// StartOrGetDirectRoom returns the direct room between the caller and a
	// provider, creating it if needed. The provider is notified only when
	// the room is new.
	StartOrGetDirectRoom(userID, providerID string) (*StartResult, error)
	// GetRoom returns a room the caller participates in.
	GetRoom(roomID, callerID string) (*models.ChatRoom, error)
	// SendMessage persists a message and fans it out.
	SendMessage(roomID, senderID, text string) (*models.Message, error)
	// GetHistory returns the room's most recent messages, oldest first.
	GetHistory(roomID string, limit int64) ([]models.Message, error)
}

// DefaultChatService is the production implementation.
type DefaultChatService struct {
	Chats         chatRepo.ChatRepository
	Users         userRepo.UserRepository
	Providers     providerRepo.ProviderRepository
	Requests      requestRepo.RequestRepository
	Notifications notificationRepo.NotificationRepository
	Events        Publisher
}

func (s *DefaultChatService) StartOrGetRoomForRequest(serviceRequestID, callerID string) (*StartResult, error) {
	if room, err := s.Chats.GetRoomByRequest(serviceRequestID); err == nil {
		return &StartResult{Room: room}, nil
	}

	req, err := s.Requests.GetByID(serviceRequestID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if req.ProviderID == nil {
		// No provider assigned yet, so there is no counterpart to chat with.
		return nil, ErrRoomNotFound
	}
	provider, err := s.Providers.GetByID(*req.ProviderID)
	if err != nil {
		return nil, err
	}

	room := &models.ChatRoom{
		ID:               uuid.New().String(),
		ServiceRequestID: &req.ID,
		UserID:           req.UserID,
		ProviderUserID:   provider.UserID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Chats.CreateRoom(room); err != nil {
		return nil, err
	}
	s.notifyRoomCreated(room, provider.ID, callerID)
	return &StartResult{Room: room, Created: true}, nil
}

func (s *DefaultChatService) StartOrGetDirectRoom(userID, providerID string) (*StartResult, error) {
	provider, err := s.Providers.GetByID(providerID)
	if err != nil {
		return nil, err
	}

	if room, err := s.Chats.GetDirectRoom(userID, provider.UserID); err == nil {
		return &StartResult{Room: room}, nil
	}

	room := &models.ChatRoom{
		ID:             uuid.New().String(),
		UserID:         userID,
		ProviderUserID: provider.UserID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Chats.CreateRoom(room); err != nil {
		return nil, err
	}
	s.notifyRoomCreated(room, provider.ID, userID)
	return &StartResult{Room: room, Created: true}, nil
}

func (s *DefaultChatService) notifyRoomCreated(room *models.ChatRoom, providerID, initiatorID string) {
	sender := initiatorID
	if u, err := s.Users.GetByID(initiatorID); err == nil {
		sender = u.Username
	}
	s.Events.Publish(realtime.ProviderNotifyRoom(providerID), realtime.Event{
		Type: realtime.EventNewChatNotification,
		Data: map[string]any{
			"chatroom_id": room.ID,
			"message":     "New chat started by user",
			"sender":      sender,
		},
	})
}

func (s *DefaultChatService) GetRoom(roomID, callerID string) (*models.ChatRoom, error) {
	room, err := s.Chats.GetRoomByID(roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if !room.IsParticipant(callerID) {
		return nil, ErrNotParticipant
	}
	return room, nil
}

func (s *DefaultChatService) SendMessage(roomID, senderID, text string) (*models.Message, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	room, err := s.Chats.GetRoomByID(roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if !room.IsParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	senderName := senderID
	if u, err := s.Users.GetByID(senderID); err == nil {
		senderName = u.Username
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		ChatRoomID: room.ID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.Chats.InsertMessage(msg); err != nil {
		return nil, err
	}

	s.Events.Publish(realtime.ChatRoomName(room.ID), realtime.Event{
		Type: realtime.EventChatMessage,
		Data: map[string]any{
			"message":   msg.Content,
			"sender":    msg.SenderName,
			"timestamp": msg.Timestamp.Format(time.RFC3339),
		},
	})

	// The durable write above is the system of record; everything below is
	// best-effort fan-out for the counterpart.
	s.notifyRecipient(room, msg)

	return msg, nil
}

func (s *DefaultChatService) notifyRecipient(room *models.ChatRoom, msg *models.Message) {
	logger := utils.GetLogger()

	recipientID := room.OtherParticipant(msg.SenderID)
	if recipientID == "" || recipientID == msg.SenderID {
		return
	}

	notification := &models.Notification{
		ID:          uuid.New().String(),
		Type:        models.NotificationTypeChat,
		RecipientID: &recipientID,
		Message:     truncate(msg.Content, notificationPreviewLimit),
		Extra: map[string]any{
			"sender":      msg.SenderName,
			"chatroom_id": room.ID,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Notifications.Create(notification); err != nil {
		logger.Warn("failed to store chat notification",
			zap.String("chatRoomId", room.ID), zap.Error(err))
	}

	// When the provider side is the recipient, mirror onto the provider
	// dashboard channel as well.
	if recipientID == room.ProviderUserID {
		provider, err := s.Providers.GetByUserID(recipientID)
		if err != nil {
			logger.Debug("no provider profile for chat recipient",
				zap.String("userId", recipientID))
			return
		}
		s.Events.Publish(realtime.ProviderNotifyRoom(provider.ID), realtime.Event{
			Type: realtime.EventNewChatNotification,
			Data: map[string]any{
				"chatroom_id": room.ID,
				"message":     msg.Content,
				"sender":      msg.SenderName,
			},
		})
	}
}

func (s *DefaultChatService) GetHistory(roomID string, limit int64) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	messages, err := s.Chats.ListMessages(roomID, limit)
	if err != nil {
		return nil, err
	}
	// The store returns newest first; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
