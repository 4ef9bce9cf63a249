package service

import (
	"context"

	"github.com/avvvet/arena-services/internal/competesvc/models"
)

// UserService struct represents the user service layer
type UserService struct {
	userStore UserRepository
}

// NewUserService creates a new UserService instance
func NewUserService(userStore UserRepository) *UserService {
	return &UserService{
		userStore: userStore,
	}
}

// GetUser returns nil, nil when no user has the id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if err := checkID("user id", id); err != nil {
		return nil, err
	}
	return s.userStore.GetByID(ctx, id)
}
