package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chanSubscriber queues events on a channel like a live session would.
type chanSubscriber struct {
	ch chan Event
}

func newChanSubscriber(depth int) *chanSubscriber {
	return &chanSubscriber{ch: make(chan Event, depth)}
}

func (s *chanSubscriber) Send(event Event) bool {
	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}

func (s *chanSubscriber) drain() []Event {
	var out []Event
	for {
		select {
		case e := <-s.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestPublishReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	member := newChanSubscriber(8)
	outsider := newChanSubscriber(8)

	hub.Join("room-a", member)
	hub.Join("room-b", outsider)

	hub.Publish("room-a", Event{Type: "ping"})

	require.Len(t, member.drain(), 1)
	assert.Empty(t, outsider.drain())
}

func TestPublishOrderWithinRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := newChanSubscriber(16)
	hub.Join("room", sub)

	for i := 0; i < 10; i++ {
		hub.Publish("room", Event{Type: "seq", Data: map[string]any{"i": i}})
	}

	received := sub.drain()
	require.Len(t, received, 10)
	for i, e := range received {
		assert.Equal(t, i, e.Data["i"])
	}
}

func TestJoinAfterPublishMissesEvent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	late := newChanSubscriber(8)

	hub.Publish("room", Event{Type: "early"})
	hub.Join("room", late)

	assert.Empty(t, late.drain())
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := newChanSubscriber(8)

	hub.Join("room", sub)
	hub.Leave("room", sub)
	hub.Publish("room", Event{Type: "ping"})

	assert.Empty(t, sub.drain())
	assert.Equal(t, 0, hub.RoomSize("room"))
}

func TestLeaveAllRemovesEveryMembership(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := newChanSubscriber(8)
	other := newChanSubscriber(8)

	hub.Join("a", sub)
	hub.Join("b", sub)
	hub.Join("b", other)

	hub.LeaveAll(sub)

	hub.Publish("a", Event{Type: "ping"})
	hub.Publish("b", Event{Type: "ping"})

	assert.Empty(t, sub.drain())
	assert.Len(t, other.drain(), 1)
	assert.Equal(t, 0, hub.RoomSize("a"))
	assert.Equal(t, 1, hub.RoomSize("b"))
}

func TestSlowSubscriberDropsFrameOthersUnaffected(t *testing.T) {
	hub := NewHub(zap.NewNop())
	slow := newChanSubscriber(1)
	fast := newChanSubscriber(8)

	hub.Join("room", slow)
	hub.Join("room", fast)

	hub.Publish("room", Event{Type: "one"})
	hub.Publish("room", Event{Type: "two"})

	// The slow member's queue held a single frame; the second was dropped.
	assert.Len(t, slow.drain(), 1)
	assert.Len(t, fast.drain(), 2)
}

func TestEventPayloadFlattensType(t *testing.T) {
	e := Event{Type: "chat_message", Data: map[string]any{"message": "hi"}}
	payload := e.Payload()
	assert.Equal(t, "chat_message", payload["type"])
	assert.Equal(t, "hi", payload["message"])
}
