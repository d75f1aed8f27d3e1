package realtime

import "fmt"

// Event types delivered to sockets.
const (
	EventNewRequest            = "new_request"
	EventNewChatNotification   = "new_chat_notification"
	EventChatMessage           = "chat_message"
	EventChatHistory           = "chat_history"
	EventConnectionEstablished = "connection_established"
	EventRequestAccepted       = "request.accepted"
	EventRequestRejected       = "request.rejected"
	EventNotification          = "notification"
	EventConnected             = "connected"
)

// Event is a typed payload published to a room and mirrored to every session
// currently joined to it. Data keys are serialized alongside Type.
type Event struct {
	Type string
	Data map[string]any
}

// Payload flattens the event into the single JSON object sent to peers.
func (e Event) Payload() map[string]any {
	out := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		out[k] = v
	}
	out["type"] = e.Type
	return out
}

// Room name helpers. One naming scheme shared by publishers and endpoints.

// ProviderRoom is the new-request broadcast target for a provider.
func ProviderRoom(providerID string) string {
	return fmt.Sprintf("provider:%s", providerID)
}

// ProviderNotifyRoom is the chat/notification broadcast target for a provider.
func ProviderNotifyRoom(providerID string) string {
	return fmt.Sprintf("provider-notify:%s", providerID)
}

// RequestRoom is the accept/reject target for a request's live watchers.
func RequestRoom(requestID string) string {
	return fmt.Sprintf("request:%s", requestID)
}

// ChatRoomName is the message broadcast target for a chat room.
func ChatRoomName(chatRoomID string) string {
	return fmt.Sprintf("chat:%s", chatRoomID)
}

// UserRoom is the generic per-user update channel.
func UserRoom(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// NotificationsRoom is the global broadcast target.
const NotificationsRoom = "notifications"
