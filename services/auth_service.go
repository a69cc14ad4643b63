package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/certainlyMohneeesh/AuthSys/models"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/utils"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

var ErrInvalidUsername = errors.New("username must be 3-20 characters of letters, digits or underscore")

// AuthService covers registration and credential sign-in. Sign-in is
// decomposed into lookup, hash verification and notification dispatch
// so each piece stays independently testable.
type AuthService struct {
	users  UserStore
	hasher Hasher
	bus    EventPublisher
}

func NewAuthService(users UserStore, hasher Hasher, bus EventPublisher) *AuthService {
	return &AuthService{users: users, hasher: hasher, bus: bus}
}

// Register creates a credential account. The password policy here is
// the same one ResetPassword enforces.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up username: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Raced another registration past the pre-checks.
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.bus.Publish(events.AuthEvent{
		Type:  events.UserRegistered,
		Email: user.Email,
		Name:  user.DisplayName(),
	})

	return user, nil
}

// Authorize validates credentials. All failure modes collapse into one
// generic error so callers cannot probe which accounts exist or which
// of them are federated-only.
func (s *AuthService) Authorize(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Check(*user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	s.bus.Publish(events.AuthEvent{
		Type:  events.UserLoggedIn,
		Email: user.Email,
		Name:  user.DisplayName(),
	})

	return user, nil
}

// NotifyWelcome publishes a welcome email for an existing account.
// Unknown emails are silently ignored; the endpoint answer is generic
// either way.
func (s *AuthService) NotifyWelcome(ctx context.Context, email string) error {
	return s.notify(ctx, email, events.UserRegistered)
}

// NotifyLogin publishes a login-notification email for an existing
// account, with the same non-disclosure behavior as NotifyWelcome.
func (s *AuthService) NotifyLogin(ctx context.Context, email string) error {
	return s.notify(ctx, email, events.UserLoggedIn)
}

func (s *AuthService) notify(ctx context.Context, email string, eventType events.AuthEventType) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	s.bus.Publish(events.AuthEvent{
		Type:  eventType,
		Email: user.Email,
		Name:  user.DisplayName(),
	})
	return nil
}

// FindByID reloads a user, used by the refresh and profile handlers.
func (s *AuthService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return user, nil
}
