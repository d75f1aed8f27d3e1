package reviewRepo

import "doerhub/models"

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a new review record.
	Create(review *models.Review) error
	// ExistsForRequest reports whether the user already reviewed a request.
	ExistsForRequest(serviceRequestID, userID string) (bool, error)
	// ExistsDirect reports whether the user already left a direct review
	// (one not tied to a service request) for the provider.
	ExistsDirect(userID, providerID string) (bool, error)
	// ListByProvider returns a provider's reviews, newest first.
	ListByProvider(providerID string) ([]models.Review, error)
	// ListLatest returns the most recent reviews across all providers.
	ListLatest(limit int64) ([]models.Review, error)
}
