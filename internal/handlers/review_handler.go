package handlers

import (
	"errors"
	"log"

	"clubreview/internal/middleware"
	"clubreview/internal/models"
	"clubreview/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app. Review
// creation lives on the club routes; see ClubHandler.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, authGuard fiber.Handler) {
	reviews := router.Group("/reviews")
	reviews.Get("/", h.HandleGetReviews)
	reviews.Get("/:id", h.HandleGetReview)
	reviews.Delete("/:id", authGuard, h.HandleDeleteReview)
	reviews.Get("/:id/club_id", h.HandleGetClubID)
	reviews.Get("/:id/user_id", h.HandleGetUserID)
	reviews.Get("/:id/content", h.HandleGetContent)
	reviews.Put("/:id/content", authGuard, h.HandleUpdateContent)
}

// HandleGetReviews retrieves all reviews in the system.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.GetAllReviews()
	if err != nil {
		log.Printf("Error getting all reviews: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	responses := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, newReviewResponse(review))
	}
	return c.JSON(responses)
}

// HandleGetReview retrieves a single review by its ID.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	review, ok := h.fetchReview(c)
	if !ok {
		return nil
	}
	return c.JSON(newReviewResponse(*review))
}

// HandleDeleteReview deletes a review. Only the authoring user may do this;
// the club's rating is recomputed afterward.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.reviewService.DeleteReview(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		default:
			log.Printf("Error deleting review %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

// HandleGetClubID returns the id of the club a review belongs to.
func (h *ReviewHandler) HandleGetClubID(c *fiber.Ctx) error {
	review, ok := h.fetchReview(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"club_id": review.ClubID})
}

// HandleGetUserID returns the id of the review's author.
func (h *ReviewHandler) HandleGetUserID(c *fiber.Ctx) error {
	review, ok := h.fetchReview(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"user_id": review.UserID})
}

// HandleGetContent returns the review's date, rating, and comment.
func (h *ReviewHandler) HandleGetContent(c *fiber.Ctx) error {
	review, ok := h.fetchReview(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"date":    review.Date,
		"rating":  review.Rating,
		"comment": review.Comment,
	})
}

// UpdateReviewRequest represents the request body for a partial review
// content update. Rating and comment may be sent independently.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=1000"`
}

// HandleUpdateContent applies a partial update to a review's content. Only
// the authoring user may do this.
func (h *ReviewHandler) HandleUpdateContent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be an integer between 1 and 5",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if _, err := h.reviewService.UpdateReview(id, userID, req.Rating, req.Comment); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		default:
			log.Printf("Error updating review %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}
	return c.JSON(fiber.Map{"message": "Review updated successfully"})
}

// fetchReview loads the review named by the :id param, writing the error
// response itself when the id is malformed or the review is missing.
func (h *ReviewHandler) fetchReview(c *fiber.Ctx) (*models.Review, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
		return nil, false
	}

	review, err := h.reviewService.GetReviewByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
		} else {
			log.Printf("Error getting review %d: %v", id, err)
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		return nil, false
	}
	return review, true
}
