package notification

import (
	"sort"
	"sync"
	"testing"
	"time"

	"doerhub/models"
	"doerhub/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (r *memNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotificationRepo) ListForUser(userID string, limit int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.RecipientID == nil || *n.RecipientID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.rows {
		if n.ID == id && n.RecipientID != nil && *n.RecipientID == userID {
			r.rows[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.rows {
		if n.RecipientID != nil && *n.RecipientID == userID {
			r.rows[i].Read = true
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []struct {
		Room  string
		Event realtime.Event
	}
}

func (p *recordingPublisher) Publish(room string, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, struct {
		Room  string
		Event realtime.Event
	}{room, event})
}

func newTestNotificationService() (*DefaultNotificationService, *memNotificationRepo, *recordingPublisher) {
	repo := &memNotificationRepo{}
	pub := &recordingPublisher{}
	return &DefaultNotificationService{Notifications: repo, Events: pub}, repo, pub
}

func TestBroadcastStoresSingleRowAndPublishes(t *testing.T) {
	svc, repo, pub := newTestNotificationService()

	created, err := svc.Broadcast("maintenance window tonight", map[string]any{"severity": "info"})
	require.NoError(t, err)
	assert.Nil(t, created.RecipientID)
	assert.Equal(t, models.NotificationTypeBroadcast, created.Type)

	// One durable row regardless of audience size.
	require.Len(t, repo.rows, 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, realtime.NotificationsRoom, pub.events[0].Room)
	assert.Equal(t, realtime.EventNotification, pub.events[0].Event.Type)
	assert.Equal(t, "maintenance window tonight", pub.events[0].Event.Data["message"])
	assert.Equal(t, "info", pub.events[0].Event.Data["severity"])
}

func TestListForUserMergesBroadcasts(t *testing.T) {
	svc, repo, _ := newTestNotificationService()

	u1 := "u1"
	u2 := "u2"
	base := time.Now().UTC()
	repo.rows = []models.Notification{
		{ID: "n1", RecipientID: &u1, CreatedAt: base},
		{ID: "n2", RecipientID: &u2, CreatedAt: base.Add(time.Second)},
		{ID: "n3", CreatedAt: base.Add(2 * time.Second)},
	}

	list, err := svc.ListForUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].ID)
	assert.Equal(t, "n1", list[1].ID)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, repo, _ := newTestNotificationService()

	u1 := "u1"
	repo.rows = []models.Notification{
		{ID: "mine", RecipientID: &u1},
		{ID: "broadcast"},
	}

	require.NoError(t, svc.MarkRead("mine", "u1"))
	assert.True(t, repo.rows[0].Read)

	// Someone else's id and broadcast rows both miss.
	assert.ErrorIs(t, svc.MarkRead("mine", "u2"), ErrNotFound)
	assert.ErrorIs(t, svc.MarkRead("broadcast", "u1"), ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	svc, repo, _ := newTestNotificationService()

	u1 := "u1"
	u2 := "u2"
	repo.rows = []models.Notification{
		{ID: "a", RecipientID: &u1},
		{ID: "b", RecipientID: &u1},
		{ID: "c", RecipientID: &u2},
	}

	require.NoError(t, svc.MarkAllRead("u1"))
	assert.True(t, repo.rows[0].Read)
	assert.True(t, repo.rows[1].Read)
	assert.False(t, repo.rows[2].Read)
}
