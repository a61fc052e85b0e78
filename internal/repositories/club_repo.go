package repositories

import (
	"clubreview/internal/models"
)

// ClubRepository defines the interface for club data access, including the
// tag links and favorite join rows that hang off a club.
type ClubRepository interface {
	GetAll() ([]models.Club, error)
	GetByID(id uint) (*models.Club, error)
	GetByCode(code string) (*models.Club, error)
	SearchByName(query string) ([]models.Club, error)
	// Create inserts the club and upserts/links the named tags in a single
	// transaction.
	Create(club *models.Club, tagNames []string) error
	UpdateName(id uint, name string) error
	UpdateDescription(id uint, description string) error
	UpdateCode(id uint, code string) error
	UpdateRating(id uint, rating *float64) error
	// AddFavorite links the user to the club and bumps the favorite count in
	// one transaction. It reports whether a new link was created.
	AddFavorite(userID, clubID uint) (bool, error)
	// RemoveFavorite unlinks the user from the club and decrements the
	// favorite count in one transaction. It reports whether a link existed.
	RemoveFavorite(userID, clubID uint) (bool, error)
	GetFavoritedBy(clubID uint) ([]models.User, error)
}
