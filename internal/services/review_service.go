package services

import (
	"fmt"
	"math"
	"time"

	"clubreview/internal/models"
	"clubreview/internal/repositories"
	"clubreview/pkg/rabbitmq"
)

// ReviewService handles business logic related to reviews, including the
// one-review-per-user rule and keeping the club's derived average rating in
// step with its review set.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	clubRepo   repositories.ClubRepository
	mqClient   *rabbitmq.Client
}

// NewReviewService creates a new ReviewService. mqClient may be nil, in which
// case lifecycle events are not published.
func NewReviewService(reviewRepo repositories.ReviewRepository, clubRepo repositories.ClubRepository, mqClient *rabbitmq.Client) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		clubRepo:   clubRepo,
		mqClient:   mqClient,
	}
}

// GetAllReviews retrieves all reviews in the system.
func (s *ReviewService) GetAllReviews() ([]models.Review, error) {
	return s.reviewRepo.GetAll()
}

// GetReviewByID retrieves a single review by its ID.
func (s *ReviewService) GetReviewByID(id uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return review, nil
}

// GetClubReviews retrieves all reviews for a club.
func (s *ReviewService) GetClubReviews(clubID uint) ([]models.Review, error) {
	if _, err := s.clubRepo.GetByID(clubID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.reviewRepo.GetByClubID(clubID)
}

// GetUserReviews retrieves all reviews written by a user.
func (s *ReviewService) GetUserReviews(userID uint) ([]models.Review, error) {
	return s.reviewRepo.GetByUserID(userID)
}

// CreateReview posts a new review for a club and recomputes the club's
// average rating. A user may review a given club only once.
func (s *ReviewService) CreateReview(clubID, userID uint, rating int, comment string) (*models.Review, error) {
	if _, err := s.clubRepo.GetByID(clubID); err != nil {
		return nil, notFoundOr(err)
	}

	if existing, err := s.reviewRepo.GetByClubAndUser(clubID, userID); err == nil && existing != nil {
		return nil, fmt.Errorf("user %d has already reviewed club %d: %w", userID, clubID, ErrConflict)
	}

	review := &models.Review{
		ClubID:  clubID,
		UserID:  userID,
		Date:    time.Now().UTC(),
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recomputeRating(clubID); err != nil {
		return nil, err
	}

	publishEvent(s.mqClient, EventReviewCreated, map[string]interface{}{
		"review_id": review.ID,
		"club_id":   clubID,
		"user_id":   userID,
		"rating":    rating,
	})
	return review, nil
}

// UpdateReview applies a partial content update (rating and/or comment) to a
// review. Only the authoring user may modify it. Any successful modification
// recomputes the club's rating, comment-only edits included; the recompute is
// idempotent so this costs nothing.
func (s *ReviewService) UpdateReview(reviewID, userID uint, rating *int, comment *string) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}

	modified := false
	if rating != nil {
		review.Rating = *rating
		modified = true
	}
	if comment != nil {
		review.Comment = *comment
		modified = true
	}
	if !modified {
		return review, nil
	}

	review.Date = time.Now().UTC()
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if err := s.recomputeRating(review.ClubID); err != nil {
		return nil, err
	}

	publishEvent(s.mqClient, EventReviewUpdated, map[string]interface{}{
		"review_id": review.ID,
		"club_id":   review.ClubID,
		"user_id":   userID,
		"rating":    review.Rating,
	})
	return review, nil
}

// DeleteReview removes a review and recomputes the club's rating. Only the
// authoring user may delete it.
func (s *ReviewService) DeleteReview(reviewID, userID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return notFoundOr(err)
	}
	if review.UserID != userID {
		return ErrForbidden
	}

	clubID := review.ClubID
	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.recomputeRating(clubID); err != nil {
		return err
	}

	publishEvent(s.mqClient, EventReviewDeleted, map[string]interface{}{
		"review_id": reviewID,
		"club_id":   clubID,
		"user_id":   userID,
	})
	return nil
}

// recomputeRating sets the club's rating to the arithmetic mean of its live
// review set, rounded to 2 decimal places, or clears it when the set is
// empty.
func (s *ReviewService) recomputeRating(clubID uint) error {
	reviews, err := s.reviewRepo.GetByClubID(clubID)
	if err != nil {
		return fmt.Errorf("failed to load reviews for rating recompute: %w", err)
	}

	if len(reviews) == 0 {
		if err := s.clubRepo.UpdateRating(clubID, nil); err != nil {
			return fmt.Errorf("failed to clear club rating: %w", err)
		}
		return nil
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	rounded := math.Round(mean*100) / 100

	if err := s.clubRepo.UpdateRating(clubID, &rounded); err != nil {
		return fmt.Errorf("failed to update club rating: %w", err)
	}
	return nil
}
