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

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	userService   *services.UserService
	reviewService *services.ReviewService
	authService   *services.AuthService
	validate      *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, reviewService *services.ReviewService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		reviewService: reviewService,
		authService:   authService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authGuard fiber.Handler) {
	users := router.Group("/users")
	users.Get("/:identifier", h.HandleGetUser)
	users.Get("/:id/username", h.HandleGetUsername)
	users.Put("/:id/username", authGuard, h.HandleUpdateUsername)
	users.Put("/:id/password", authGuard, h.HandleUpdatePassword)
	users.Get("/:id/favorites", h.HandleGetFavorites)
	users.Get("/:id/reviews", h.HandleGetReviews)
}

// HandleGetUser retrieves a user by numeric id or, failing that, by username.
// The response embeds the ids of the user's favorite clubs and reviews.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	var user *models.User
	var err error
	if id, parseErr := parseIDParam(c, "identifier"); parseErr == nil {
		user, err = h.userService.GetUserByID(id)
	} else {
		user, err = h.userService.GetUserByUsername(identifier)
	}

	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("Error getting user %s: %v", identifier, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	favorites, err := h.userService.GetFavorites(user.ID)
	if err != nil {
		log.Printf("Error getting favorites for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	reviews, err := h.reviewService.GetUserReviews(user.ID)
	if err != nil {
		log.Printf("Error getting reviews for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	reviewIDs := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		reviewIDs = append(reviewIDs, review.ID)
	}
	return c.JSON(fiber.Map{
		"id":        user.ID,
		"username":  user.Username,
		"favorites": clubIDs(favorites),
		"reviews":   reviewIDs,
	})
}

// HandleGetUsername returns just the user's username.
func (h *UserHandler) HandleGetUsername(c *fiber.Ctx) error {
	user, ok := h.fetchUser(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"username": user.Username})
}

// UpdateUsernameRequest represents the request body for a username change.
type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=1,max=80"`
}

// HandleUpdateUsername changes a user's username. Only the user themselves
// may do this.
func (h *UserHandler) HandleUpdateUsername(c *fiber.Ctx) error {
	user, ok := h.fetchUser(c)
	if !ok {
		return nil
	}
	callerID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := h.authService.AuthorizeSelf(callerID, user.ID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req UpdateUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := h.userService.UpdateUsername(user.ID, req.Username); err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
		}
		log.Printf("Error updating username for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Username updated successfully"})
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// HandleUpdatePassword re-hashes and stores a user's new password. Only the
// user themselves may do this.
func (h *UserHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	user, ok := h.fetchUser(c)
	if !ok {
		return nil
	}
	callerID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := h.authService.AuthorizeSelf(callerID, user.ID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := h.userService.UpdatePassword(user.ID, req.Password); err != nil {
		log.Printf("Error updating password for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// HandleGetFavorites returns the user's favorite clubs.
func (h *UserHandler) HandleGetFavorites(c *fiber.Ctx) error {
	user, ok := h.fetchUser(c)
	if !ok {
		return nil
	}

	favorites, err := h.userService.GetFavorites(user.ID)
	if err != nil {
		log.Printf("Error getting favorites for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	clubs := make([]fiber.Map, 0, len(favorites))
	for _, club := range favorites {
		clubs = append(clubs, fiber.Map{"id": club.ID, "name": club.Name})
	}
	return c.JSON(clubs)
}

// HandleGetReviews returns all reviews written by the user.
func (h *UserHandler) HandleGetReviews(c *fiber.Ctx) error {
	user, ok := h.fetchUser(c)
	if !ok {
		return nil
	}

	reviews, err := h.reviewService.GetUserReviews(user.ID)
	if err != nil {
		log.Printf("Error getting reviews for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	result := make([]fiber.Map, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, fiber.Map{
			"id":      review.ID,
			"club_id": review.ClubID,
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	}
	return c.JSON(result)
}

// fetchUser loads the user named by the :id param, writing the error response
// itself when the id is malformed or the user is missing.
func (h *UserHandler) fetchUser(c *fiber.Ctx) (*models.User, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
		return nil, false
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		} else {
			log.Printf("Error getting user %d: %v", id, err)
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		return nil, false
	}
	return user, true
}
