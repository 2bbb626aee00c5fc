package auth

import (
	"errors"
	"fmt"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/database/users"
	"github.com/shelfmark/shelfmark/internal/entities"
)

var (
	ErrUsernameRequired     = errors.New("must provide username")
	ErrPasswordRequired     = errors.New("must provide password")
	ErrConfirmationRequired = errors.New("must provide password confirmation")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrUsernameTaken        = errors.New("username taken")
	ErrInvalidUsername      = errors.New("invalid username")
)

// Service handles registration and credential verification.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		config: cfg,
	}
}

// Register validates the registration form, hashes the password and inserts
// the account. The insert returns the generated id directly, so no re-query
// is needed and there is no window where the account exists without a
// usable result. The username pre-check is advisory; the store's unique
// constraint is the authoritative guard against concurrent duplicates.
func (s *Service) Register(username, password, confirmation string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if confirmation == "" {
		return nil, ErrConfirmationRequired
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	taken, err := s.users.UsernameTaken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(username, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			// Lost the race against a concurrent registration
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the account. An unknown
// username yields ErrInvalidUsername, a hash mismatch ErrInvalidPassword;
// store failures are returned as-is so callers can respond 500.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidUsername
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves an account by id, for resolving the session user.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}
