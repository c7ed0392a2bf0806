package service

import (
	"context"

	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/repository"
)

// UserService handles dashboard account business logic.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByUsername retrieves a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create creates a new user account. The password must already be hashed.
func (s *UserService) Create(ctx context.Context, user *model.User) error {
	return s.userRepo.Create(ctx, user)
}
