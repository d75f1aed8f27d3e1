package userRepo

import "doerhub/models"

// UserRepository defines methods for user account data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by email address.
	GetByEmail(email string) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(username string) (*models.User, error)
	// GetByTokenHash retrieves the user holding the given auth token hash.
	GetByTokenHash(tokenHash string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// SetTokenHash stores the hash of the user's current auth token.
	SetTokenHash(id, tokenHash string) error
}
