package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
)

// AccountService registers and authenticates users.
type AccountService interface {
	// Register creates a user and an empty profile in one transaction.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user whose email and password match,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	users     store.UserStore
	profiles  store.ProfileStore
	passwords Passwords
	db        *sql.DB
	logger    *slog.Logger
}

// Passwords hashes and verifies passwords.
type Passwords interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// NewAccountService creates an AccountService.
func NewAccountService(
	users store.UserStore,
	profiles store.ProfileStore,
	passwords Passwords,
	db *sql.DB,
	logger *slog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		users:     users,
		profiles:  profiles,
		passwords: passwords,
		db:        db,
		logger:    logger.With("component", "account_service"),
	}
}

var _ AccountService = (*AccountServiceImpl)(nil)

// Register implements AccountService.
func (s *AccountServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = hashed

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.profiles.WithTx(tx).Upsert(ctx, &domain.Profile{UserID: user.ID})
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email")
		} else {
			s.logger.Error("failed to register user", "error", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// dummyHash is compared against when the email is unknown so both failure
// paths spend similar time in bcrypt.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1/H4ZpA6TwVmtXD/2rIHgxG"

// Authenticate implements AccountService.
func (s *AccountServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	start := time.Now()
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.passwords.Compare(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("password mismatch", "user_id", user.ID, "elapsed", time.Since(start))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser implements AccountService.
func (s *AccountServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
