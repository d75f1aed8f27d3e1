package chatRepo

import "doerhub/models"

// ChatRepository defines methods for chat room and message data access.
type ChatRepository interface {
	// GetRoomByID retrieves a chat room by its unique ID.
	GetRoomByID(id string) (*models.ChatRoom, error)
	// GetRoomByRequest retrieves the room attached to a service request.
	GetRoomByRequest(serviceRequestID string) (*models.ChatRoom, error)
	// GetDirectRoom retrieves the first room between the two accounts that
	// has no service request attached.
	GetDirectRoom(userID, providerUserID string) (*models.ChatRoom, error)
	// CreateRoom inserts a new chat room record.
	CreateRoom(room *models.ChatRoom) error
	// InsertMessage persists a chat message.
	InsertMessage(msg *models.Message) error
	// ListMessages returns up to limit most recent messages of a room,
	// newest first. Callers reverse for chronological display.
	ListMessages(roomID string, limit int64) ([]models.Message, error)
}
