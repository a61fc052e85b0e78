package repositories

import (
	"errors"
	"fmt"

	"clubreview/internal/models"

	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// GetAll retrieves all reviews in the system.
func (r *GORMReviewRepository) GetAll() ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to get all reviews: %w", err)
	}
	return reviews, nil
}

// GetByID retrieves a single review by its ID.
func (r *GORMReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %d: %w", id, err)
	}
	return &review, nil
}

// GetByClubID retrieves the live set of reviews for a club.
func (r *GORMReviewRepository) GetByClubID(clubID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews, "club_id = ?", clubID).Error; err != nil {
		return nil, fmt.Errorf("failed to get reviews for club %d: %w", clubID, err)
	}
	return reviews, nil
}

// GetByUserID retrieves all reviews written by a user.
func (r *GORMReviewRepository) GetByUserID(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get reviews for user %d: %w", userID, err)
	}
	return reviews, nil
}

// GetByClubAndUser retrieves the review a user wrote for a club, if any.
func (r *GORMReviewRepository) GetByClubAndUser(clubID, userID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "club_id = ? AND user_id = ?", clubID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review for club %d by user %d: %w", clubID, userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get review for club %d by user %d: %w", clubID, userID, err)
	}
	return &review, nil
}

// Create creates a new review in the database.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update updates an existing review in the database.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", review.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a review by its ID from the database.
func (r *GORMReviewRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
