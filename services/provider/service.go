package provider

import (
	"errors"
	"time"

	categoryRepo "doerhub/database/repository/category"
	providerRepo "doerhub/database/repository/provider"
	userRepo "doerhub/database/repository/user"
	"doerhub/models"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyRegistered is returned when the user already has a provider
	// profile.
	ErrAlreadyRegistered = errors.New("provider profile already exists")
	// ErrUnknownCategory is returned for a category id that does not exist.
	ErrUnknownCategory = errors.New("unknown service category")
)

// RegisterInput carries a new provider profile's fields.
type RegisterInput struct {
	CategoryID string `json:"categoryId" binding:"required"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	Experience int    `json:"experience"`
}

// ProviderService manages provider profiles and their tracking state.
type ProviderService interface {
	// Register creates a provider profile for the user. The profile starts
	// unverified and untracked.
	Register(userID string, input RegisterInput) (*models.Provider, error)
	Get(id string) (*models.Provider, error)
	GetByUser(userID string) (*models.Provider, error)
	// ListByCategory returns verified providers offering the category.
	ListByCategory(categoryID string) ([]models.Provider, error)
	// UpdateLocation records the provider's current coordinates and flips
	// the profile online.
	UpdateLocation(id string, lat, lon float64) error
	// StopTracking clears the provider's coordinates and takes it offline.
	StopTracking(id string) error
	SetOnline(id string, online bool) error
}

type DefaultProviderService struct {
	Providers  providerRepo.ProviderRepository
	Users      userRepo.UserRepository
	Categories categoryRepo.CategoryRepository
}

func (s *DefaultProviderService) Register(userID string, input RegisterInput) (*models.Provider, error) {
	if _, err := s.Providers.GetByUserID(userID); err == nil {
		return nil, ErrAlreadyRegistered
	}
	if _, err := s.Categories.GetByID(input.CategoryID); err != nil {
		return nil, ErrUnknownCategory
	}
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	provider := &models.Provider{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Phone:      input.Phone,
		Location:   input.Location,
		CategoryID: input.CategoryID,
		Bio:        input.Bio,
		Experience: input.Experience,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Providers.Create(provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *DefaultProviderService) Get(id string) (*models.Provider, error) {
	return s.Providers.GetByID(id)
}

func (s *DefaultProviderService) GetByUser(userID string) (*models.Provider, error) {
	return s.Providers.GetByUserID(userID)
}

func (s *DefaultProviderService) ListByCategory(categoryID string) ([]models.Provider, error) {
	return s.Providers.GetByCategory(categoryID, true)
}

func (s *DefaultProviderService) UpdateLocation(id string, lat, lon float64) error {
	return s.Providers.UpdateLocation(id, lat, lon)
}

func (s *DefaultProviderService) StopTracking(id string) error {
	return s.Providers.ClearLocation(id)
}

func (s *DefaultProviderService) SetOnline(id string, online bool) error {
	return s.Providers.SetOnline(id, online)
}
