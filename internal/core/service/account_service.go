package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedboard/social-api/internal/core/domain"
	"github.com/feedboard/social-api/internal/core/ports"
)

const bcryptCost = 12

const minStatusLen = 7

// AccountService implements registration, login and the caller-scoped user
// operations. Login is optionally throttled per email via a LoginLimiter.
type AccountService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	limiter ports.LoginLimiter // nil disables throttling
	logger  zerolog.Logger
}

func NewAccountService(users ports.UserRepository, tokens ports.TokenService, limiter ports.LoginLimiter, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, limiter: limiter, logger: logger}
}

// CreateUser validates the signup input, rejects duplicate emails and stores
// the user with a bcrypt password hash. Open to unauthenticated callers.
func (s *AccountService) CreateUser(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	if probs := checkSignup(signupRules{Email: input.Email, Password: input.Password}); len(probs) > 0 {
		return nil, domain.InvalidInput(probs)
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.UserExists()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.UserExists()
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

// Login verifies the credentials and issues an identity token. Unknown email
// and wrong password produce the same generic 401.
func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// fail open: an unreachable limiter must not lock anyone out
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			return nil, domain.TooManyLoginAttempts()
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.WrongCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.WrongCredentials()
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, UserID: user.ID}, nil
}

// GetUser returns the caller's own record.
func (s *AccountService) GetUser(ctx context.Context, viewer ports.Viewer) (*domain.User, error) {
	if !viewer.Authenticated {
		return nil, domain.NotAuthenticated()
	}

	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.UserVanished(404)
		}
		return nil, err
	}
	return user, nil
}

// UpdateStatus overwrites the caller's status line. Statuses shorter than
// seven characters are rejected with 406.
func (s *AccountService) UpdateStatus(ctx context.Context, viewer ports.Viewer, status string) error {
	if !viewer.Authenticated {
		return domain.NotAuthenticated()
	}

	if _, err := s.users.FindByID(ctx, viewer.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserVanished(404)
		}
		return err
	}

	if len(status) < minStatusLen {
		return domain.StatusTooShort()
	}

	return s.users.UpdateStatus(ctx, viewer.UserID, status)
}
