package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/platform/logger"
	"github.com/cramhq/cram-api/internal/service/auth"
	"github.com/cramhq/cram-api/internal/store"
)

// UserService provides account registration and authentication.
type UserService interface {
	// Register creates a new account with the given email and password.
	// Returns store.ErrEmailExists if the email is already taken.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies a login attempt. Returns ErrInvalidCredentials
	// for an unknown email or a wrong password, without distinguishing
	// the two.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
// Panics if any required dependency is nil.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) UserService {
	if users == nil {
		panic("users store cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}
}

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// ErrPasswordTooShort indicates a registration password under the minimum length.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// Register implements UserService.Register.
func (s *userServiceImpl) Register(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected, email taken")
			return nil, store.ErrEmailExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			// Burn comparable time so unknown emails are not
			// distinguishable by response latency.
			_ = s.verifier.Compare(
				"$2a$12$000000000000000000000uGyiMEPQTDiZu7MCWeXiZPBixnNJuo6u", password)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.PasswordHash, password); err != nil {
		log.Debug("login rejected, wrong password",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
