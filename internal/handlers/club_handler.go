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

// ClubHandler handles HTTP requests for clubs, including the club-scoped
// review, tag, and favorite routes.
type ClubHandler struct {
	clubService   *services.ClubService
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(clubService *services.ClubService, reviewService *services.ReviewService) *ClubHandler {
	return &ClubHandler{
		clubService:   clubService,
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the club routes with the Fiber app. The search
// route must come before the identifier route so "search" is not read as a
// club code.
func (h *ClubHandler) RegisterRoutes(router fiber.Router, authGuard fiber.Handler) {
	clubs := router.Group("/clubs")
	clubs.Get("/", h.HandleGetClubs)
	clubs.Post("/", authGuard, h.HandleCreateClub)
	clubs.Get("/search/:query", h.HandleSearchClubs)
	clubs.Get("/:identifier", h.HandleGetClub)
	clubs.Put("/:id/code", authGuard, h.HandleUpdateCode)
	clubs.Get("/:id/name", h.HandleGetName)
	clubs.Put("/:id/name", authGuard, h.HandleUpdateName)
	clubs.Get("/:id/description", h.HandleGetDescription)
	clubs.Put("/:id/description", authGuard, h.HandleUpdateDescription)
	clubs.Get("/:id/reviews", h.HandleGetClubReviews)
	clubs.Post("/:id/reviews", authGuard, h.HandleCreateReview)
	clubs.Get("/:id/rating", h.HandleGetRating)
	clubs.Get("/:id/tags", h.HandleGetClubTags)
	clubs.Get("/:id/favorite", h.HandleGetFavoritedBy)
	clubs.Post("/:id/favorite", authGuard, h.HandleFavorite)
	clubs.Delete("/:id/favorite", authGuard, h.HandleUnfavorite)
	clubs.Get("/:id/favorite_count", h.HandleGetFavoriteCount)
}

// HandleGetClubs retrieves all clubs with their tags and reviews.
func (h *ClubHandler) HandleGetClubs(c *fiber.Ctx) error {
	clubs, err := h.clubService.GetAllClubs()
	if err != nil {
		log.Printf("Error getting all clubs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(newClubResponses(clubs))
}

// CreateClubRequest represents the request body for club creation.
type CreateClubRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Code        string   `json:"code" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=80"`
}

// HandleCreateClub creates a new club, upserting its tags by name.
func (h *ClubHandler) HandleCreateClub(c *fiber.Ctx) error {
	var req CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create club request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	club, err := h.clubService.CreateClub(req.Name, req.Code, req.Description, req.Tags)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Club code already exists",
			})
		}
		log.Printf("Error creating club: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	tags := make([]string, 0, len(club.Tags))
	for _, tag := range club.Tags {
		tags = append(tags, tag.Name)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Club created successfully",
		"club": fiber.Map{
			"id":          club.ID,
			"name":        club.Name,
			"code":        club.Code,
			"description": club.Description,
			"tags":        tags,
		},
	})
}

// HandleSearchClubs retrieves clubs whose name contains the query,
// case-insensitively.
func (h *ClubHandler) HandleSearchClubs(c *fiber.Ctx) error {
	clubs, err := h.clubService.SearchClubs(c.Params("query"))
	if err != nil {
		log.Printf("Error searching clubs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(newClubResponses(clubs))
}

// HandleGetClub retrieves a club by numeric id or, failing that, by code.
func (h *ClubHandler) HandleGetClub(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	var club *models.Club
	var err error
	if id, parseErr := parseIDParam(c, "identifier"); parseErr == nil {
		club, err = h.clubService.GetClubByID(id)
	} else {
		club, err = h.clubService.GetClubByCode(identifier)
	}

	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Club not found",
			})
		}
		log.Printf("Error getting club %s: %v", identifier, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(newClubResponse(*club))
}

// UpdateClubNameRequest represents the request body for a name update.
type UpdateClubNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// HandleGetName returns just the club's name.
func (h *ClubHandler) HandleGetName(c *fiber.Ctx) error {
	club, ok := h.fetchClub(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"name": club.Name})
}

// HandleUpdateName updates only the club's name.
func (h *ClubHandler) HandleUpdateName(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	var req UpdateClubNameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := h.clubService.UpdateName(id, req.Name); err != nil {
		return h.clubMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Club name updated successfully"})
}

// UpdateClubDescriptionRequest represents the request body for a description
// update.
type UpdateClubDescriptionRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
}

// HandleGetDescription returns just the club's description.
func (h *ClubHandler) HandleGetDescription(c *fiber.Ctx) error {
	club, ok := h.fetchClub(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"description": club.Description})
}

// HandleUpdateDescription updates only the club's description.
func (h *ClubHandler) HandleUpdateDescription(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	var req UpdateClubDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := h.clubService.UpdateDescription(id, req.Description); err != nil {
		return h.clubMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Club description updated successfully"})
}

// UpdateClubCodeRequest represents the request body for a code update.
type UpdateClubCodeRequest struct {
	Code string `json:"code" validate:"required,min=1,max=255"`
}

// HandleUpdateCode updates only the club's code. The new code must not belong
// to a different club.
func (h *ClubHandler) HandleUpdateCode(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	var req UpdateClubCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := h.clubService.UpdateCode(id, req.Code); err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Club code already exists",
			})
		}
		return h.clubMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Club code updated successfully"})
}

// HandleGetClubReviews retrieves all reviews for a club.
func (h *ClubHandler) HandleGetClubReviews(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	reviews, err := h.reviewService.GetClubReviews(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
		log.Printf("Error getting reviews for club %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	summaries := make([]reviewSummary, 0, len(reviews))
	for _, review := range reviews {
		summaries = append(summaries, newReviewSummary(review))
	}
	return c.JSON(summaries)
}

// CreateReviewRequest represents the request body for posting a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleCreateReview posts a new review for a club on behalf of the
// authenticated user.
func (h *ClubHandler) HandleCreateReview(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be an integer between 1 and 5",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if _, err := h.reviewService.CreateReview(id, userID, req.Rating, req.Comment); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		case errors.Is(err, services.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User has already reviewed this club",
			})
		default:
			log.Printf("Error creating review for club %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review added successfully"})
}

// HandleGetRating returns the club's derived average rating.
func (h *ClubHandler) HandleGetRating(c *fiber.Ctx) error {
	club, ok := h.fetchClub(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"rating": club.Rating})
}

// HandleGetClubTags returns the club's tags.
func (h *ClubHandler) HandleGetClubTags(c *fiber.Ctx) error {
	club, ok := h.fetchClub(c)
	if !ok {
		return nil
	}
	tags := make([]fiber.Map, 0, len(club.Tags))
	for _, tag := range club.Tags {
		tags = append(tags, fiber.Map{"id": tag.ID, "name": tag.Name})
	}
	return c.JSON(tags)
}

// HandleGetFavoritedBy returns the users who favorited the club.
func (h *ClubHandler) HandleGetFavoritedBy(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	users, err := h.clubService.GetFavoritedBy(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
		log.Printf("Error getting users who favorited club %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		result = append(result, fiber.Map{"id": user.ID, "username": user.Username})
	}
	return c.JSON(result)
}

// HandleFavorite adds the club to the authenticated user's favorites.
func (h *ClubHandler) HandleFavorite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	added, err := h.clubService.Favorite(userID, id)
	if err != nil {
		return h.clubMutationError(c, err)
	}
	if !added {
		return c.JSON(fiber.Map{"message": "Club already in favorites"})
	}
	return c.JSON(fiber.Map{"message": "Club added to favorites"})
}

// HandleUnfavorite removes the club from the authenticated user's favorites.
// Removing an absent favorite still reports success.
func (h *ClubHandler) HandleUnfavorite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if _, err := h.clubService.Unfavorite(userID, id); err != nil {
		return h.clubMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Club removed from favorites"})
}

// HandleGetFavoriteCount returns the club's favorite count.
func (h *ClubHandler) HandleGetFavoriteCount(c *fiber.Ctx) error {
	club, ok := h.fetchClub(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"favorite_count": club.FavoriteCount})
}

// fetchClub loads the club named by the :id param, writing the error response
// itself when the id is malformed or the club is missing. The bool reports
// whether the caller got a club to work with.
func (h *ClubHandler) fetchClub(c *fiber.Ctx) (*models.Club, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
		return nil, false
	}

	club, err := h.clubService.GetClubByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		} else {
			log.Printf("Error getting club %d: %v", id, err)
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		return nil, false
	}
	return club, true
}

// clubMutationError maps a service error from a club mutation onto the
// standard responses.
func (h *ClubHandler) clubMutationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
	}
	log.Printf("Error mutating club: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
