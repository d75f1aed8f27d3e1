package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Close code sent when a socket fails authentication or an ownership check.
const ClosePolicyViolation = 4003

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendQueueDepth = 32
)

// Session wraps one websocket connection. A single writer goroutine drains
// the send queue so concurrent publishers never interleave frames.
type Session struct {
	conn   *websocket.Conn
	send   chan Event
	logger *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession wraps an upgraded connection and starts its writer.
func NewSession(conn *websocket.Conn, logger *zap.Logger) *Session {
	s := &Session{
		conn:   conn,
		send:   make(chan Event, sendQueueDepth),
		logger: logger,
		done:   make(chan struct{}),
	}
	go s.writePump()
	return s
}

// Send queues an event for delivery. Returns false when the session is
// closed or its queue is full; the frame is dropped in either case.
func (s *Session) Send(event Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

// SendNow is Send for connect-time frames where the caller wants the event
// delivered before the session is handed to the hub; it still never blocks
// past the queue.
func (s *Session) SendNow(event Event) {
	if !s.Send(event) {
		s.logger.Warn("dropped connect-time frame", zap.String("event", event.Type))
	}
}

// ReadJSON blocks for the next inbound JSON frame.
func (s *Session) ReadJSON(v any) error {
	return s.conn.ReadJSON(v)
}

// Close tears the connection down. Safe to call from any goroutine and more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// Refuse sends a policy close frame and tears the connection down. Used when
// auth or an ownership check fails after the HTTP upgrade already happened.
func (s *Session) Refuse() {
	msg := websocket.FormatCloseMessage(ClosePolicyViolation, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	s.Close()
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case event := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(event.Payload()); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// StartReadDeadlines installs the pong-based read deadline loop. Call once
// before entering the read loop.
func (s *Session) StartReadDeadlines() {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}
