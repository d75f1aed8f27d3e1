package providerRepo

import (
	"errors"

	"doerhub/models"
)

// ErrNotFound reports that no provider matches the lookup. Implementations
// wrap it so callers can tell a missing profile from a store failure.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository defines methods for provider profile data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(id string) (*models.Provider, error)
	// GetByUserID retrieves the provider profile owned by a user account.
	GetByUserID(userID string) (*models.Provider, error)
	// GetByCategory returns providers assigned to a service category.
	// verifiedOnly restricts the result to admin-verified providers.
	GetByCategory(categoryID string, verifiedOnly bool) ([]models.Provider, error)
	// Create inserts a new provider record.
	Create(provider *models.Provider) error
	// Update modifies an existing provider record.
	Update(provider *models.Provider) error
	// Delete removes a provider record by its ID.
	Delete(id string) error
	// SetOnline flips the provider's online flag.
	SetOnline(id string, online bool) error
	// UpdateLocation stores the provider's current coordinates and marks
	// the provider online. Last writer wins.
	UpdateLocation(id string, lat, lon float64) error
	// ClearLocation removes the provider's coordinates and marks the
	// provider offline.
	ClearLocation(id string) error
	// SetCategory assigns a service category to the provider.
	SetCategory(id, categoryID string) error
}
