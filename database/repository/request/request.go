package requestRepo

import "doerhub/models"

// RequestRepository defines methods for service request data access.
type RequestRepository interface {
	// GetByID retrieves a service request by its unique ID.
	GetByID(id string) (*models.ServiceRequest, error)
	// Create inserts a new service request record.
	Create(req *models.ServiceRequest) error
	// ListByUser returns a user's requests, newest first.
	ListByUser(userID string) ([]models.ServiceRequest, error)
	// ListByProvider returns requests assigned to a provider, newest first,
	// optionally filtered by status ("" means all).
	ListByProvider(providerID, status string) ([]models.ServiceRequest, error)
	// ListOpenByCategory returns pending, unassigned requests in a category
	// that carry coordinates. Used by the request-matching view.
	ListOpenByCategory(categoryID string) ([]models.ServiceRequest, error)
	// CountAcceptedByProvider counts the provider's requests in accepted status.
	CountAcceptedByProvider(providerID string) (int64, error)
	// Claim atomically assigns a pending, unassigned request to a provider
	// and moves it to accepted. Exactly one of several racing callers
	// observes ok=true; the rest lose the claim.
	Claim(requestID, providerID string) (ok bool, err error)
	// UpdateStatusFrom moves a request from one status to another in a single
	// conditional write. Returns false when the request was not in the
	// expected status.
	UpdateStatusFrom(id, from, to string) (bool, error)
}
