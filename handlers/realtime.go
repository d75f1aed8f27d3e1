package handlers

import (
	"errors"
	"net/http"
	"time"

	"doerhub/models"
	"doerhub/realtime"
	"doerhub/services/auth"
	"doerhub/services/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	Hub        *realtime.Hub
	WorkerPool *realtime.Pool
	AuthGate   auth.Gate
)

// Websocket endpoints authenticate after the HTTP upgrade so clients receive
// a proper close frame (4003) instead of a failed handshake, matching what
// browser clients can actually observe.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// upgradeAndResolve upgrades the connection and authenticates the socket from
// the token query parameter. On auth failure the session is refused and nil
// is returned.
func upgradeAndResolve(c *gin.Context) (*realtime.Session, *models.Principal) {
	logger := getLogger(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil, nil
	}
	session := realtime.NewSession(conn, logger)

	principal, err := AuthGate.Resolve(c.Request.Context(), c.Query("token"))
	if err != nil {
		session.Refuse()
		return nil, nil
	}
	return session, principal
}

// ProviderRequestsSocketHandler is the provider's live dashboard channel:
// nearby new requests and chat notifications. Connecting flips the provider
// online; disconnecting flips it back.
func ProviderRequestsSocketHandler(c *gin.Context) {
	logger := getLogger(c)
	providerID := c.Param("providerID")

	session, principal := upgradeAndResolve(c)
	if session == nil {
		return
	}
	if !principal.IsProvider() || principal.ProviderID != providerID {
		session.Refuse()
		return
	}

	if err := ProviderService.SetOnline(providerID, true); err != nil {
		logger.Error("Failed to mark provider online", zap.Error(err))
		session.Refuse()
		return
	}
	defer func() {
		Hub.LeaveAll(session)
		if err := ProviderService.SetOnline(providerID, false); err != nil {
			logger.Warn("Failed to mark provider offline", zap.Error(err))
		}
		session.Close()
	}()

	Hub.Join(realtime.ProviderRoom(providerID), session)
	Hub.Join(realtime.ProviderNotifyRoom(providerID), session)
	session.SendNow(realtime.Event{
		Type: realtime.EventConnected,
		Data: map[string]any{"provider_id": providerID},
	})

	discardInbound(session)
}

// ChatSocketHandler streams one chat room. On connect the client receives the
// recent history followed by a connection acknowledgement; inbound frames are
// messages to persist and fan out.
func ChatSocketHandler(c *gin.Context) {
	logger := getLogger(c)
	roomID := c.Param("chatRoomID")

	session, principal := upgradeAndResolve(c)
	if session == nil {
		return
	}
	if _, err := ChatService.GetRoom(roomID, principal.UserID); err != nil {
		session.Refuse()
		return
	}
	defer func() {
		Hub.LeaveAll(session)
		session.Close()
	}()

	history, err := ChatService.GetHistory(roomID, 0)
	if err != nil {
		logger.Error("Failed to load chat history for socket", zap.Error(err))
		session.Refuse()
		return
	}
	session.SendNow(realtime.Event{
		Type: realtime.EventChatHistory,
		Data: map[string]any{"messages": historyPayload(history)},
	})
	session.SendNow(realtime.Event{
		Type: realtime.EventConnectionEstablished,
		Data: map[string]any{"chatroom_id": roomID},
	})

	Hub.Join(realtime.ChatRoomName(roomID), session)
	session.StartReadDeadlines()

	for {
		var frame struct {
			Message string `json:"message"`
		}
		if err := session.ReadJSON(&frame); err != nil {
			return
		}
		WorkerPool.Do(func() {
			if _, err := ChatService.SendMessage(roomID, principal.UserID, frame.Message); err != nil {
				// Blank frames are dropped without feedback; anything else
				// is worth a log line.
				if !errors.Is(err, chat.ErrEmptyMessage) {
					logger.Warn("Failed to deliver chat message",
						zap.String("chatRoomId", roomID), zap.Error(err))
				}
			}
		})
	}
}

// UserUpdatesSocketHandler is the per-user update channel plus the global
// notification feed. The user id is taken from the path as-is.
//
// TODO: tighten to an ownership check once product decides whether shared
// household devices keep using a single user channel.
func UserUpdatesSocketHandler(c *gin.Context) {
	userID := c.Param("userID")

	session, _ := upgradeAndResolve(c)
	if session == nil {
		return
	}
	defer func() {
		Hub.LeaveAll(session)
		session.Close()
	}()

	Hub.Join(realtime.UserRoom(userID), session)
	Hub.Join(realtime.NotificationsRoom, session)
	session.SendNow(realtime.Event{
		Type: realtime.EventConnected,
		Data: map[string]any{"user_id": userID},
	})
	session.StartReadDeadlines()

	// Inbound frames are relayed to the user's other devices.
	for {
		var frame map[string]any
		if err := session.ReadJSON(&frame); err != nil {
			return
		}
		eventType := realtime.EventNotification
		if t, ok := frame["type"].(string); ok && t != "" {
			eventType = t
		}
		delete(frame, "type")
		Hub.Publish(realtime.UserRoom(userID), realtime.Event{Type: eventType, Data: frame})
	}
}

// ServiceRequestSocketHandler streams accept/reject outcomes for one request
// to its owner.
func ServiceRequestSocketHandler(c *gin.Context) {
	requestID := c.Param("requestID")

	session, principal := upgradeAndResolve(c)
	if session == nil {
		return
	}
	if _, err := RequestService.StatusQuery(requestID, principal.UserID); err != nil {
		session.Refuse()
		return
	}
	defer func() {
		Hub.LeaveAll(session)
		session.Close()
	}()

	Hub.Join(realtime.RequestRoom(requestID), session)
	session.SendNow(realtime.Event{
		Type: realtime.EventConnectionEstablished,
		Data: map[string]any{"request_id": requestID},
	})

	discardInbound(session)
}

// discardInbound keeps the read side pumping (for pongs and close frames) on
// channels that take no client input.
func discardInbound(session *realtime.Session) {
	session.StartReadDeadlines()
	for {
		var frame map[string]any
		if err := session.ReadJSON(&frame); err != nil {
			return
		}
	}
}

func historyPayload(messages []models.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		out = append(out, map[string]any{
			"sender":    m.SenderName,
			"message":   m.Content,
			"timestamp": m.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}
