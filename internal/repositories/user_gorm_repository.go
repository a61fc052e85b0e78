package repositories

import (
	"errors"
	"fmt"

	"clubreview/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with username %s: %w", username, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// UpdateUsername changes only the username column for the given user.
func (r *GORMUserRepository) UpdateUsername(id uint, username string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("username", username)
	if res.Error != nil {
		return fmt.Errorf("failed to update username for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdatePassword changes only the password hash for the given user.
func (r *GORMUserRepository) UpdatePassword(id uint, hashedPassword string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetFavorites retrieves the clubs a user has favorited.
func (r *GORMUserRepository) GetFavorites(userID uint) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.
		Joins("JOIN favorite_clubs ON favorite_clubs.club_id = clubs.id").
		Where("favorite_clubs.user_id = ?", userID).
		Find(&clubs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites for user %d: %w", userID, err)
	}
	return clubs, nil
}
