package categoryRepo

import "doerhub/models"

// CategoryRepository defines methods for service category data access.
type CategoryRepository interface {
	// GetByID retrieves a category by its unique ID.
	GetByID(id string) (*models.ServiceCategory, error)
	// List returns categories, optionally filtered by category type ("" means all).
	List(categoryType string) ([]models.ServiceCategory, error)
	// Create inserts a new category record.
	Create(category *models.ServiceCategory) error
}
