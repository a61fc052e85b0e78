package services

import (
	"fmt"

	"clubreview/internal/models"
	"clubreview/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for user profiles.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID retrieves a user by their ID.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

// GetFavorites retrieves the clubs a user has favorited.
func (s *UserService) GetFavorites(userID uint) ([]models.Club, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.userRepo.GetFavorites(userID)
}

// UpdateUsername changes a user's username. The new username must be unique.
func (s *UserService) UpdateUsername(id uint, username string) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return notFoundOr(err)
	}
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return fmt.Errorf("username %q already exists: %w", username, ErrConflict)
	}
	return s.userRepo.UpdateUsername(id, username)
}

// UpdatePassword re-hashes and stores a user's new password.
func (s *UserService) UpdatePassword(id uint, password string) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return notFoundOr(err)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(id, string(hashedPassword))
}
