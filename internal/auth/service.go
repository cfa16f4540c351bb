package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/config"
	"github.com/PotatoCodder/library-management-backend/internal/database/users"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
)

// Service handles login and account creation.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Login checks the credentials against administrators, then users.
// It returns the role of the first table whose row matches.
func (s *Service) Login(ctx context.Context, username, password string) (entities.Role, error) {
	if username == "" || password == "" {
		return "", ErrMissingFields
	}

	repo := users.NewRepository(s.db)

	admin, err := repo.GetAdminByUsername(ctx, username)
	switch {
	case err == nil:
		ok, err := matches(password, admin.PasswordHash)
		if err != nil {
			return "", fmt.Errorf("failed to verify admin password: %w", err)
		}
		if ok {
			return entities.RoleAdmin, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("failed to find admin: %w", err)
	}

	user, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := matches(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify user password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	return entities.RoleUser, nil
}

// Register creates a regular user with an empty borrowed list.
func (s *Service) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	repo := users.NewRepository(s.db)

	_, err := repo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := repo.CreateUser(ctx, username, passwordHash)
	if err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CreateAdmin creates an administrator account.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*entities.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	repo := users.NewRepository(s.db)

	_, err := repo.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := repo.CreateAdmin(ctx, username, passwordHash)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// matches reports whether password fits hash. A mismatch is not an error.
func matches(password, hash string) (bool, error) {
	err := CheckPassword(password, hash)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrInvalidPassword) {
		return false, nil
	}
	return false, err
}
