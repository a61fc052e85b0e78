package repositories

import (
	"clubreview/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetAll() ([]models.Review, error)
	GetByID(id uint) (*models.Review, error)
	GetByClubID(clubID uint) ([]models.Review, error)
	GetByUserID(userID uint) ([]models.Review, error)
	GetByClubAndUser(clubID, userID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id uint) error
}
