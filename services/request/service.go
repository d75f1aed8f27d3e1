package request

import (
	"errors"
	"time"

	chatRepo "doerhub/database/repository/chat"
	providerRepo "doerhub/database/repository/provider"
	requestRepo "doerhub/database/repository/request"
	"doerhub/models"
	"doerhub/realtime"
	"doerhub/services/matching"
	"doerhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher is the injected pub/sub handle events are mirrored through.
type Publisher interface {
	Publish(room string, event realtime.Event)
}

// CreateInput carries the caller-supplied fields of a new request. Status is
// never taken from the caller.
type CreateInput struct {
	CategoryID string   `json:"categoryId" binding:"required"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Notes      string   `json:"notes"`
}

// Status is the read-only view returned by StatusQuery.
type Status struct {
	Status       string  `json:"status"`
	ProviderName *string `json:"provider"`
	ChatRoomID   *string `json:"chatroomId"`
}

// AcceptResult reports a successful accept to the caller.
type AcceptResult struct {
	RequestID  string `json:"requestId"`
	ChatRoomID string `json:"chatroomId"`
}

// RequestService owns the service request state machine.
type RequestService interface {
	// Create persists a pending request and broadcasts it to nearby
	// eligible providers, best-effort.
	Create(userID string, in CreateInput) (*models.ServiceRequest, error)
	// Accept assigns the request to the provider. Exactly one of several
	// racing providers succeeds.
	Accept(requestID, providerID string) (*AcceptResult, error)
	// Reject marks a pending request rejected.
	Reject(requestID, providerID string) error
	// Cancel marks the requester's own request cancelled.
	Cancel(requestID, userID string) error
	// Complete marks the provider's accepted request completed.
	Complete(requestID, providerID string) error
	// StatusQuery returns the request status for its requester.
	StatusQuery(requestID, userID string) (*Status, error)
	// ListForUser returns the requester's own requests.
	ListForUser(userID string) ([]models.ServiceRequest, error)
	// IncomingForProvider returns nearby open requests for the provider.
	IncomingForProvider(providerID string) ([]matching.RequestMatch, error)
	// HistoryForProvider returns the provider's assigned requests.
	HistoryForProvider(providerID, status string) ([]models.ServiceRequest, error)
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	Requests  requestRepo.RequestRepository
	Providers providerRepo.ProviderRepository
	Chats     chatRepo.ChatRepository
	Matcher   matching.MatchingService
	Events    Publisher
}

func (s *DefaultRequestService) Create(userID string, in CreateInput) (*models.ServiceRequest, error) {
	req := &models.ServiceRequest{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Address:    in.Address,
		Lat:        in.Lat,
		Lon:        in.Lon,
		Status:     models.RequestStatusPending,
		Notes:      in.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Requests.Create(req); err != nil {
		return nil, err
	}

	// The request is durable at this point; reaching providers is a mirror
	// and must never fail the create.
	s.broadcastToNearby(req)

	return req, nil
}

func (s *DefaultRequestService) broadcastToNearby(req *models.ServiceRequest) {
	logger := utils.GetLogger()

	if !req.HasCoordinates() || req.CategoryID == "" {
		logger.Debug("request has no location or category, skipping broadcast",
			zap.String("requestId", req.ID))
		return
	}

	candidates, err := s.Matcher.NearbyProviders(*req.Lat, *req.Lon, req.CategoryID)
	if err != nil {
		logger.Warn("nearby provider lookup failed",
			zap.String("requestId", req.ID), zap.Error(err))
		return
	}

	for _, m := range candidates {
		s.Events.Publish(realtime.ProviderRoom(m.Provider.ID), realtime.Event{
			Type: realtime.EventNewRequest,
			Data: map[string]any{
				"request_id":       req.ID,
				"service_category": req.CategoryID,
				"message":          "New nearby request in your category",
			},
		})
	}
	logger.Info("broadcast new request to nearby providers",
		zap.String("requestId", req.ID), zap.Int("providers", len(candidates)))
}

// callerProvider loads the provider profile acting on a request. A missing
// profile is an authorization problem; a store failure is not and surfaces
// as-is so handlers report it as a server error.
func (s *DefaultRequestService) callerProvider(providerID string) (*models.Provider, error) {
	provider, err := s.Providers.GetByID(providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return provider, nil
}

func (s *DefaultRequestService) Accept(requestID, providerID string) (*AcceptResult, error) {
	provider, err := s.callerProvider(providerID)
	if err != nil {
		return nil, err
	}
	if !provider.Verified {
		return nil, ErrUnauthorized
	}

	busy, err := s.Requests.CountAcceptedByProvider(providerID)
	if err != nil {
		return nil, err
	}
	if busy > 0 {
		return nil, ErrProviderBusy
	}

	ok, err := s.Requests.Claim(requestID, providerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The claim lost: figure out why.
		req, err := s.Requests.GetByID(requestID)
		if err != nil {
			return nil, ErrNotFound
		}
		if req.ProviderID != nil {
			return nil, ErrAlreadyAssigned
		}
		return nil, ErrInvalidTransition
	}

	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	// The claim is already durable; a chat room failure must not unwind it.
	// The room gets created on the next chat start for this request.
	result := &AcceptResult{RequestID: requestID}
	data := map[string]any{"provider_name": provider.Username}
	if room, err := s.getOrCreateRoomForRequest(req, provider); err != nil {
		utils.GetLogger().Warn("chat room creation failed after accept",
			zap.String("requestId", requestID), zap.Error(err))
	} else {
		result.ChatRoomID = room.ID
		data["chatroom_id"] = room.ID
	}

	s.Events.Publish(realtime.RequestRoom(requestID), realtime.Event{
		Type: realtime.EventRequestAccepted,
		Data: data,
	})

	return result, nil
}

func (s *DefaultRequestService) getOrCreateRoomForRequest(req *models.ServiceRequest, provider *models.Provider) (*models.ChatRoom, error) {
	if room, err := s.Chats.GetRoomByRequest(req.ID); err == nil {
		return room, nil
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
	return room, nil
}

// Reject requires the caller to hold a provider profile but, matching current
// product behaviour, does not require the provider to be the one the request
// was routed to. TODO: tighten to an ownership check once product decides.
func (s *DefaultRequestService) Reject(requestID, providerID string) error {
	if _, err := s.callerProvider(providerID); err != nil {
		return err
	}

	ok, err := s.Requests.UpdateStatusFrom(requestID, models.RequestStatusPending, models.RequestStatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Requests.GetByID(requestID); err != nil {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}

	s.Events.Publish(realtime.RequestRoom(requestID), realtime.Event{
		Type: realtime.EventRequestRejected,
	})
	return nil
}

func (s *DefaultRequestService) Cancel(requestID, userID string) error {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}
	if req.UserID != userID {
		return ErrUnauthorized
	}
	if req.Status == models.RequestStatusAccepted || req.Status == models.RequestStatusCompleted {
		return ErrInvalidTransition
	}

	ok, err := s.Requests.UpdateStatusFrom(requestID, req.Status, models.RequestStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

func (s *DefaultRequestService) Complete(requestID, providerID string) error {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}
	if req.ProviderID == nil || *req.ProviderID != providerID {
		return ErrUnauthorized
	}
	if req.Status != models.RequestStatusAccepted {
		return ErrInvalidTransition
	}

	ok, err := s.Requests.UpdateStatusFrom(requestID, models.RequestStatusAccepted, models.RequestStatusCompleted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

func (s *DefaultRequestService) StatusQuery(requestID, userID string) (*Status, error) {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.UserID != userID {
		return nil, ErrUnauthorized
	}

	st := &Status{Status: req.Status}
	if req.ProviderID != nil {
		if provider, err := s.Providers.GetByID(*req.ProviderID); err == nil {
			st.ProviderName = &provider.Username
		}
	}
	if room, err := s.Chats.GetRoomByRequest(requestID); err == nil {
		st.ChatRoomID = &room.ID
	}
	return st, nil
}

func (s *DefaultRequestService) ListForUser(userID string) ([]models.ServiceRequest, error) {
	return s.Requests.ListByUser(userID)
}

func (s *DefaultRequestService) IncomingForProvider(providerID string) ([]matching.RequestMatch, error) {
	provider, err := s.callerProvider(providerID)
	if err != nil {
		return nil, err
	}
	return s.Matcher.NearbyRequests(provider)
}

func (s *DefaultRequestService) HistoryForProvider(providerID, status string) ([]models.ServiceRequest, error) {
	return s.Requests.ListByProvider(providerID, status)
}
