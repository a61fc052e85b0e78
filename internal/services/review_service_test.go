package services_test

import (
	"testing"

	"clubreview/internal/models"
	"clubreview/internal/repositories"
	"clubreview/internal/services"

	"github.com/stretchr/testify/assert"
)

// newReviewFixture wires a ReviewService over in-memory repositories with one
// club already created.
func newReviewFixture(t *testing.T) (*services.ReviewService, *repositories.MockClubRepository, *models.Club) {
	t.Helper()
	clubRepo := repositories.NewMockClubRepository()
	reviewRepo := repositories.NewMockReviewRepository()

	club := &models.Club{Name: "Penn Labs", Code: "pennlabs"}
	assert.NoError(t, clubRepo.Create(club, nil))

	return services.NewReviewService(reviewRepo, clubRepo, nil), clubRepo, club
}

func clubRating(t *testing.T, clubRepo *repositories.MockClubRepository, clubID uint) *float64 {
	t.Helper()
	club, err := clubRepo.GetByID(clubID)
	assert.NoError(t, err)
	return club.Rating
}

func TestReviewService_RatingFollowsReviewSet(t *testing.T) {
	service, clubRepo, club := newReviewFixture(t)

	// No reviews yet: rating is unset.
	assert.Nil(t, clubRating(t, clubRepo, club.ID))

	// One review: rating equals it.
	first, err := service.CreateReview(club.ID, 1, 5, "great")
	assert.NoError(t, err)
	rating := clubRating(t, clubRepo, club.ID)
	assert.NotNil(t, rating)
	assert.Equal(t, 5.0, *rating)

	// Two reviews: plain mean.
	second, err := service.CreateReview(club.ID, 2, 4, "")
	assert.NoError(t, err)
	assert.Equal(t, 4.5, *clubRating(t, clubRepo, club.ID))

	// Three reviews: mean rounds to 2 decimal places.
	third, err := service.CreateReview(club.ID, 3, 4, "")
	assert.NoError(t, err)
	assert.Equal(t, 4.33, *clubRating(t, clubRepo, club.ID))

	// Rating change recomputes.
	newRating := 1
	_, err = service.UpdateReview(third.ID, 3, &newRating, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3.33, *clubRating(t, clubRepo, club.ID))

	// Deleting reviews walks the mean back down to unset.
	assert.NoError(t, service.DeleteReview(third.ID, 3))
	assert.Equal(t, 4.5, *clubRating(t, clubRepo, club.ID))
	assert.NoError(t, service.DeleteReview(second.ID, 2))
	assert.Equal(t, 5.0, *clubRating(t, clubRepo, club.ID))
	assert.NoError(t, service.DeleteReview(first.ID, 1))
	assert.Nil(t, clubRating(t, clubRepo, club.ID))
}

func TestReviewService_CommentOnlyEditStillRecomputes(t *testing.T) {
	service, clubRepo, club := newReviewFixture(t)

	review, err := service.CreateReview(club.ID, 1, 4, "fine")
	assert.NoError(t, err)

	// Force the stored rating out of sync, then make a comment-only edit; the
	// recompute should bring it back.
	stale := 1.0
	assert.NoError(t, clubRepo.UpdateRating(club.ID, &stale))

	comment := "actually pretty good"
	updated, err := service.UpdateReview(review.ID, 1, nil, &comment)
	assert.NoError(t, err)
	assert.Equal(t, "actually pretty good", updated.Comment)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, 4.0, *clubRating(t, clubRepo, club.ID))
}

func TestReviewService_OneReviewPerUserPerClub(t *testing.T) {
	service, _, club := newReviewFixture(t)

	_, err := service.CreateReview(club.ID, 1, 5, "great")
	assert.NoError(t, err)

	_, err = service.CreateReview(club.ID, 1, 3, "changed my mind")
	assert.ErrorIs(t, err, services.ErrConflict)

	// A different user can still review.
	_, err = service.CreateReview(club.ID, 2, 3, "")
	assert.NoError(t, err)
}

func TestReviewService_OnlyAuthorMayMutate(t *testing.T) {
	service, _, club := newReviewFixture(t)

	review, err := service.CreateReview(club.ID, 1, 5, "great")
	assert.NoError(t, err)

	rating := 1
	_, err = service.UpdateReview(review.ID, 2, &rating, nil)
	assert.ErrorIs(t, err, services.ErrForbidden)

	assert.ErrorIs(t, service.DeleteReview(review.ID, 2), services.ErrForbidden)

	// The author still can.
	_, err = service.UpdateReview(review.ID, 1, &rating, nil)
	assert.NoError(t, err)
	assert.NoError(t, service.DeleteReview(review.ID, 1))
}

func TestReviewService_MissingResources(t *testing.T) {
	service, _, club := newReviewFixture(t)

	_, err := service.CreateReview(999, 1, 5, "")
	assert.ErrorIs(t, err, services.ErrNotFound)

	rating := 3
	_, err = service.UpdateReview(999, 1, &rating, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, service.DeleteReview(999, 1), services.ErrNotFound)

	_, err = service.GetClubReviews(999)
	assert.ErrorIs(t, err, services.ErrNotFound)

	reviews, err := service.GetClubReviews(club.ID)
	assert.NoError(t, err)
	assert.Empty(t, reviews)
}
