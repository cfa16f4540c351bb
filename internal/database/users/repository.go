// Package users provides database operations for user and admin credentials.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername(ctx, "alice")
package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// Repository handles all user and admin database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user with an empty borrowed list.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateAdmin creates a new administrator.
func (r *Repository) CreateAdmin(ctx context.Context, username, passwordHash string) (*entities.Admin, error) {
	admin := &entities.Admin{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}

	return admin, nil
}

// GetAdminByUsername retrieves an administrator by username.
func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	var admin entities.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
