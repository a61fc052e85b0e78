package repositories

import (
	"fmt"
	"sync"
	"time"

	"clubreview/internal/models"

	"gorm.io/gorm"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[uint]models.Review
	nextID  uint
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[uint]models.Review),
		nextID:  1,
	}
}

// GetAll returns all reviews.
func (r *MockReviewRepository) GetAll() ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviewList := make([]models.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		reviewList = append(reviewList, review)
	}
	return reviewList, nil
}

// GetByID returns a review by its ID.
func (r *MockReviewRepository) GetByID(id uint) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return &review, nil
}

// GetByClubID returns all reviews for a club.
func (r *MockReviewRepository) GetByClubID(clubID uint) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviewList []models.Review
	for _, review := range r.reviews {
		if review.ClubID == clubID {
			reviewList = append(reviewList, review)
		}
	}
	return reviewList, nil
}

// GetByUserID returns all reviews written by a user.
func (r *MockReviewRepository) GetByUserID(userID uint) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviewList []models.Review
	for _, review := range r.reviews {
		if review.UserID == userID {
			reviewList = append(reviewList, review)
		}
	}
	return reviewList, nil
}

// GetByClubAndUser returns the review a user wrote for a club, if any.
func (r *MockReviewRepository) GetByClubAndUser(clubID, userID uint) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, review := range r.reviews {
		if review.ClubID == clubID && review.UserID == userID {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("review for club %d by user %d: %w", clubID, userID, gorm.ErrRecordNotFound)
}

// Create adds a new review, enforcing the one-review-per-user-per-club rule
// the way the database unique index would.
func (r *MockReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.ClubID == review.ClubID && existing.UserID == review.UserID {
			return fmt.Errorf("review for club %d by user %d already exists: %w", review.ClubID, review.UserID, gorm.ErrDuplicatedKey)
		}
	}

	if review.ID == 0 {
		review.ID = r.nextID
		r.nextID++
	}
	review.CreatedAt = time.Now()
	r.reviews[review.ID] = *review
	return nil
}

// Update modifies an existing review.
func (r *MockReviewRepository) Update(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return fmt.Errorf("review with ID %d: %w", review.ID, gorm.ErrRecordNotFound)
	}
	r.reviews[review.ID] = *review
	return nil
}

// Delete removes a review by its ID.
func (r *MockReviewRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return fmt.Errorf("review with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.reviews, id)
	return nil
}
