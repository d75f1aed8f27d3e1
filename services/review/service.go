package review

import (
	"errors"
	"time"

	providerRepo "doerhub/database/repository/provider"
	requestRepo "doerhub/database/repository/request"
	reviewRepo "doerhub/database/repository/review"
	"doerhub/models"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyReviewed is returned when the user already reviewed the
	// request or provider.
	ErrAlreadyReviewed = errors.New("review already submitted")
	// ErrNotReviewable is returned when the request is not completed or
	// does not belong to the reviewer.
	ErrNotReviewable = errors.New("request cannot be reviewed")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// SubmitInput carries a new review's fields. Exactly one of
// ServiceRequestID and ProviderID keys the review: request reviews resolve
// the provider from the request.
type SubmitInput struct {
	ServiceRequestID *string `json:"serviceRequestId,omitempty"`
	ProviderID       string  `json:"providerId"`
	Rating           int     `json:"rating" binding:"required"`
	Comment          string  `json:"comment"`
}

// ReviewService manages provider ratings.
type ReviewService interface {
	Submit(userID string, input SubmitInput) (*models.Review, error)
	ListByProvider(providerID string) ([]models.Review, error)
	ListLatest(limit int64) ([]models.Review, error)
}

type DefaultReviewService struct {
	Reviews   reviewRepo.ReviewRepository
	Requests  requestRepo.RequestRepository
	Providers providerRepo.ProviderRepository
}

func (s *DefaultReviewService) Submit(userID string, input SubmitInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	providerID := input.ProviderID
	if input.ServiceRequestID != nil {
		req, err := s.Requests.GetByID(*input.ServiceRequestID)
		if err != nil {
			return nil, ErrNotReviewable
		}
		if req.UserID != userID || req.Status != models.RequestStatusCompleted || req.ProviderID == nil {
			return nil, ErrNotReviewable
		}
		providerID = *req.ProviderID

		exists, err := s.Reviews.ExistsForRequest(req.ID, userID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAlreadyReviewed
		}
	} else {
		if _, err := s.Providers.GetByID(providerID); err != nil {
			return nil, err
		}
		exists, err := s.Reviews.ExistsDirect(userID, providerID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAlreadyReviewed
		}
	}

	review := &models.Review{
		ID:               uuid.New().String(),
		ServiceRequestID: input.ServiceRequestID,
		UserID:           userID,
		ProviderID:       providerID,
		Rating:           input.Rating,
		Comment:          input.Comment,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *DefaultReviewService) ListByProvider(providerID string) ([]models.Review, error) {
	return s.Reviews.ListByProvider(providerID)
}

func (s *DefaultReviewService) ListLatest(limit int64) ([]models.Review, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	return s.Reviews.ListLatest(limit)
}
