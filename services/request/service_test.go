package request

import (
	"errors"
	"sync"
	"testing"

	providerRepo "doerhub/database/repository/provider"
	"doerhub/models"
	"doerhub/realtime"
	"doerhub/services/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.ServiceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.ServiceRequest)}
}

func (r *fakeRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) Create(req *models.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) ListByUser(userID string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByProvider(providerID, status string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.requests {
		if req.ProviderID != nil && *req.ProviderID == providerID && (status == "" || req.Status == status) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListOpenByCategory(categoryID string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.requests {
		if req.CategoryID == categoryID && req.Status == models.RequestStatusPending && req.ProviderID == nil && req.HasCoordinates() {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CountAcceptedByProvider(providerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if req.Status == models.RequestStatusAccepted && req.ProviderID != nil && *req.ProviderID == providerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRequestRepo) Claim(requestID, providerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return false, nil
	}
	if req.Status != models.RequestStatusPending || req.ProviderID != nil {
		return false, nil
	}
	pid := providerID
	req.ProviderID = &pid
	req.Status = models.RequestStatusAccepted
	return true, nil
}

func (r *fakeRequestRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

type fakeProviderRepo struct {
	providers map[string]*models.Provider
	getErr    error
}

func (r *fakeProviderRepo) GetByID(id string) (*models.Provider, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProviderRepo) GetByUserID(userID string) (*models.Provider, error) {
	for _, p := range r.providers {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, providerRepo.ErrNotFound
}

func (r *fakeProviderRepo) GetByCategory(categoryID string, verifiedOnly bool) ([]models.Provider, error) {
	var out []models.Provider
	for _, p := range r.providers {
		if p.CategoryID == categoryID && (!verifiedOnly || p.Verified) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProviderRepo) Create(p *models.Provider) error            { r.providers[p.ID] = p; return nil }
func (r *fakeProviderRepo) Update(p *models.Provider) error            { r.providers[p.ID] = p; return nil }
func (r *fakeProviderRepo) Delete(id string) error                     { delete(r.providers, id); return nil }
func (r *fakeProviderRepo) SetOnline(id string, online bool) error     { return nil }
func (r *fakeProviderRepo) UpdateLocation(id string, lat, lon float64) error { return nil }
func (r *fakeProviderRepo) ClearLocation(id string) error              { return nil }
func (r *fakeProviderRepo) SetCategory(id, categoryID string) error    { return nil }

type fakeChatRepo struct {
	mu        sync.Mutex
	rooms     map[string]*models.ChatRoom
	createErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rooms: make(map[string]*models.ChatRoom)}
}

func (r *fakeChatRepo) GetRoomByID(id string) (*models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *room
	return &cp, nil
}

func (r *fakeChatRepo) GetRoomByRequest(serviceRequestID string) (*models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.ServiceRequestID != nil && *room.ServiceRequestID == serviceRequestID {
			cp := *room
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeChatRepo) GetDirectRoom(userID, providerUserID string) (*models.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.ServiceRequestID == nil && room.UserID == userID && room.ProviderUserID == providerUserID {
			cp := *room
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeChatRepo) CreateRoom(room *models.ChatRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *room
	r.rooms[room.ID] = &cp
	return nil
}

func (r *fakeChatRepo) InsertMessage(msg *models.Message) error { return nil }

func (r *fakeChatRepo) ListMessages(roomID string, limit int64) ([]models.Message, error) {
	return nil, nil
}

type fakeMatcher struct {
	providers []matching.ProviderMatch
	requests  []matching.RequestMatch
}

func (m *fakeMatcher) NearbyProviders(lat, lon float64, categoryID string) ([]matching.ProviderMatch, error) {
	return m.providers, nil
}

func (m *fakeMatcher) NearbyRequests(p *models.Provider) ([]matching.RequestMatch, error) {
	return m.requests, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Room  string
	Event realtime.Event
}

func (p *recordingPublisher) Publish(room string, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Event: event})
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestService() (*DefaultRequestService, *fakeRequestRepo, *fakeProviderRepo, *recordingPublisher) {
	reqRepo := newFakeRequestRepo()
	provRepo := &fakeProviderRepo{providers: map[string]*models.Provider{
		"p1": {ID: "p1", UserID: "u-p1", Username: "alice-the-plumber", CategoryID: "plumbing", Verified: true, IsOnline: true},
		"p2": {ID: "p2", UserID: "u-p2", Username: "bob", CategoryID: "plumbing", Verified: true, IsOnline: true},
	}}
	pub := &recordingPublisher{}
	svc := &DefaultRequestService{
		Requests:  reqRepo,
		Providers: provRepo,
		Chats:     newFakeChatRepo(),
		Matcher:   &fakeMatcher{},
		Events:    pub,
	}
	return svc, reqRepo, provRepo, pub
}

func seedPending(t *testing.T, repo *fakeRequestRepo, id, userID string) {
	t.Helper()
	require.NoError(t, repo.Create(&models.ServiceRequest{
		ID:         id,
		UserID:     userID,
		CategoryID: "plumbing",
		Status:     models.RequestStatusPending,
		Lat:        ptr(12.90),
		Lon:        ptr(77.58),
	}))
}

func TestCreateForcesPendingAndBroadcasts(t *testing.T) {
	svc, _, _, pub := newTestService()
	svc.Matcher = &fakeMatcher{providers: []matching.ProviderMatch{
		{Provider: models.Provider{ID: "p1"}},
		{Provider: models.Provider{ID: "p2"}},
	}}

	created, err := svc.Create("u1", CreateInput{
		CategoryID: "plumbing",
		Lat:        ptr(12.90),
		Lon:        ptr(77.58),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.Nil(t, created.ProviderID)

	broadcasts := pub.byType(realtime.EventNewRequest)
	require.Len(t, broadcasts, 2)
	assert.Equal(t, realtime.ProviderRoom("p1"), broadcasts[0].Room)
	assert.Equal(t, created.ID, broadcasts[0].Event.Data["request_id"])
}

func TestCreateWithoutCoordinatesSkipsBroadcast(t *testing.T) {
	svc, _, _, pub := newTestService()

	_, err := svc.Create("u1", CreateInput{CategoryID: "plumbing"})
	require.NoError(t, err)
	assert.Empty(t, pub.byType(realtime.EventNewRequest))
}

func TestAcceptAssignsAndOpensChat(t *testing.T) {
	svc, reqRepo, _, pub := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	result, err := svc.Accept("r1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "r1", result.RequestID)
	assert.NotEmpty(t, result.ChatRoomID)

	stored, err := reqRepo.GetByID("r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, stored.Status)
	require.NotNil(t, stored.ProviderID)
	assert.Equal(t, "p1", *stored.ProviderID)

	accepted := pub.byType(realtime.EventRequestAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, realtime.RequestRoom("r1"), accepted[0].Room)
	assert.Equal(t, result.ChatRoomID, accepted[0].Event.Data["chatroom_id"])
	assert.Equal(t, "alice-the-plumber", accepted[0].Event.Data["provider_name"])
}

func TestAcceptRaceHasExactlyOneWinner(t *testing.T) {
	svc, reqRepo, provRepo, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	// Many idle verified providers racing for the same request.
	const contenders = 16
	for i := 0; i < contenders; i++ {
		id := string(rune('a' + i))
		provRepo.providers[id] = &models.Provider{
			ID: id, UserID: "u-" + id, Username: id,
			CategoryID: "plumbing", Verified: true, IsOnline: true,
		}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, lost int
	for id := range provRepo.providers {
		wg.Add(1)
		go func(providerID string) {
			defer wg.Done()
			_, err := svc.Accept("r1", providerID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, ErrAlreadyAssigned)
				lost++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, len(provRepo.providers)-1, lost)
}

func TestAcceptBusyProvider(t *testing.T) {
	svc, reqRepo, _, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")
	seedPending(t, reqRepo, "r2", "u2")

	_, err := svc.Accept("r1", "p1")
	require.NoError(t, err)

	_, err = svc.Accept("r2", "p1")
	assert.ErrorIs(t, err, ErrProviderBusy)

	// The other provider is still free to take it.
	_, err = svc.Accept("r2", "p2")
	assert.NoError(t, err)
}

func TestAcceptUnverifiedProvider(t *testing.T) {
	svc, reqRepo, provRepo, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")
	provRepo.providers["p1"].Verified = false

	_, err := svc.Accept("r1", "p1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAcceptMissingRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Accept("nope", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptProviderStoreOutage(t *testing.T) {
	svc, reqRepo, provRepo, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	// A store failure is not a missing profile and must not read as a
	// permission problem.
	storeErr := errors.New("server selection timeout")
	provRepo.getErr = storeErr

	_, err := svc.Accept("r1", "p1")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	assert.NotErrorIs(t, svc.Reject("r1", "p1"), ErrUnauthorized)

	_, err = svc.IncomingForProvider("p1")
	assert.NotErrorIs(t, err, ErrUnauthorized)

	// The request is untouched.
	stored, getErr := reqRepo.GetByID("r1")
	require.NoError(t, getErr)
	assert.Equal(t, models.RequestStatusPending, stored.Status)
}

func TestAcceptSurvivesChatRoomOutage(t *testing.T) {
	svc, reqRepo, _, pub := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	chats := newFakeChatRepo()
	chats.createErr = errors.New("write concern timeout")
	svc.Chats = chats

	// The claim already won; the degraded accept still reports success and
	// still reaches the requester, just without a room id.
	result, err := svc.Accept("r1", "p1")
	require.NoError(t, err)
	assert.Empty(t, result.ChatRoomID)

	stored, err := reqRepo.GetByID("r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, stored.Status)

	accepted := pub.byType(realtime.EventRequestAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, "alice-the-plumber", accepted[0].Event.Data["provider_name"])
	assert.NotContains(t, accepted[0].Event.Data, "chatroom_id")
}

func TestRejectPendingOnly(t *testing.T) {
	svc, reqRepo, _, pub := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	require.NoError(t, svc.Reject("r1", "p1"))
	assert.Len(t, pub.byType(realtime.EventRequestRejected), 1)

	// A second reject finds the request no longer pending.
	assert.ErrorIs(t, svc.Reject("r1", "p1"), ErrInvalidTransition)
}

func TestCancelRules(t *testing.T) {
	svc, reqRepo, _, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	// Only the requester may cancel.
	assert.ErrorIs(t, svc.Cancel("r1", "someone-else"), ErrUnauthorized)

	require.NoError(t, svc.Cancel("r1", "u1"))
	stored, _ := reqRepo.GetByID("r1")
	assert.Equal(t, models.RequestStatusCancelled, stored.Status)

	// Accepted requests cannot be cancelled.
	seedPending(t, reqRepo, "r2", "u1")
	_, err := svc.Accept("r2", "p1")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Cancel("r2", "u1"), ErrInvalidTransition)
}

func TestCompleteOnlyByAssignedProvider(t *testing.T) {
	svc, reqRepo, _, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	_, err := svc.Accept("r1", "p1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Complete("r1", "p2"), ErrUnauthorized)
	require.NoError(t, svc.Complete("r1", "p1"))

	stored, _ := reqRepo.GetByID("r1")
	assert.Equal(t, models.RequestStatusCompleted, stored.Status)

	// Completing twice is an invalid transition.
	assert.ErrorIs(t, svc.Complete("r1", "p1"), ErrInvalidTransition)
}

func TestStatusQuery(t *testing.T) {
	svc, reqRepo, _, _ := newTestService()
	seedPending(t, reqRepo, "r1", "u1")

	// Requester only.
	_, err := svc.StatusQuery("r1", "intruder")
	assert.ErrorIs(t, err, ErrUnauthorized)

	st, err := svc.StatusQuery("r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, st.Status)
	assert.Nil(t, st.ProviderName)
	assert.Nil(t, st.ChatRoomID)

	result, err := svc.Accept("r1", "p1")
	require.NoError(t, err)

	st, err = svc.StatusQuery("r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, st.Status)
	require.NotNil(t, st.ProviderName)
	assert.Equal(t, "alice-the-plumber", *st.ProviderName)
	require.NotNil(t, st.ChatRoomID)
	assert.Equal(t, result.ChatRoomID, *st.ChatRoomID)
}
