package auth

import (
	"errors"
	"time"

	providerRepo "doerhub/database/repository/provider"
	userRepo "doerhub/database/repository/user"
	"doerhub/models"
	"doerhub/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Credential errors. Both map to a 401; ErrUsernameTaken and ErrEmailTaken
// map to a 409 at the handler.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
)

// TokenTTL is the lifetime of issued auth tokens.
const TokenTTL = 72 * time.Hour

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned on successful registration or login. Provider is
// set when the account owns a provider profile, so clients learn their
// verification state in the same response.
type AuthResult struct {
	User     *models.User     `json:"user"`
	Provider *models.Provider `json:"provider,omitempty"`
	Token    string           `json:"token"`
}

// AccountService manages user accounts and credentials.
type AccountService interface {
	Register(input RegisterInput) (*AuthResult, error)
	Login(input LoginInput) (*AuthResult, error)
	Profile(userID string) (*models.User, error)
	UpdateProfile(userID string, phone, address string) (*models.User, error)
}

type DefaultAccountService struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
}

func (s *DefaultAccountService) Register(input RegisterInput) (*AuthResult, error) {
	if _, err := s.Users.GetByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.Users.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Address:      input.Address,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *DefaultAccountService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.Users.GetByUsername(input.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// issueToken mints a fresh JWT and records its hash as the account's current
// token, invalidating any previously issued one.
func (s *DefaultAccountService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, TokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetTokenHash(user.ID, utils.HashToken(token)); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.TokenHash = ""

	result := &AuthResult{User: user, Token: token}
	if s.Providers != nil {
		if provider, err := s.Providers.GetByUserID(user.ID); err == nil {
			result.Provider = provider
		}
	}
	return result, nil
}

func (s *DefaultAccountService) Profile(userID string) (*models.User, error) {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.TokenHash = ""
	return user, nil
}

func (s *DefaultAccountService) UpdateProfile(userID string, phone, address string) (*models.User, error) {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if phone != "" {
		user.Phone = phone
	}
	if address != "" {
		user.Address = address
	}
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.TokenHash = ""
	return user, nil
}
