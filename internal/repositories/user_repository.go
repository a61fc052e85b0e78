package repositories

import "clubreview/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateUsername(id uint, username string) error
	UpdatePassword(id uint, hashedPassword string) error
	GetFavorites(userID uint) ([]models.Club, error)
}
