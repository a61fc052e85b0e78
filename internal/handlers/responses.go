package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"clubreview/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// reviewSummary is the review shape nested inside club responses.
type reviewSummary struct {
	ID      uint   `json:"id"`
	UserID  uint   `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// clubResponse is the full club shape with nested tag names and reviews.
type clubResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	Rating        *float64        `json:"rating"`
	FavoriteCount int             `json:"favorite_count"`
	Tags          []string        `json:"tags"`
	Reviews       []reviewSummary `json:"reviews"`
}

// reviewResponse is the standalone review shape.
type reviewResponse struct {
	ID      uint      `json:"id"`
	ClubID  uint      `json:"club_id"`
	UserID  uint      `json:"user_id"`
	Date    time.Time `json:"date"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}

func newClubResponse(club models.Club) clubResponse {
	tags := make([]string, 0, len(club.Tags))
	for _, tag := range club.Tags {
		tags = append(tags, tag.Name)
	}
	reviews := make([]reviewSummary, 0, len(club.Reviews))
	for _, review := range club.Reviews {
		reviews = append(reviews, newReviewSummary(review))
	}
	return clubResponse{
		ID:            club.ID,
		Name:          club.Name,
		Code:          club.Code,
		Description:   club.Description,
		Rating:        club.Rating,
		FavoriteCount: club.FavoriteCount,
		Tags:          tags,
		Reviews:       reviews,
	}
}

func newClubResponses(clubs []models.Club) []clubResponse {
	responses := make([]clubResponse, 0, len(clubs))
	for _, club := range clubs {
		responses = append(responses, newClubResponse(club))
	}
	return responses
}

func newReviewSummary(review models.Review) reviewSummary {
	return reviewSummary{
		ID:      review.ID,
		UserID:  review.UserID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}
}

func newReviewResponse(review models.Review) reviewResponse {
	return reviewResponse{
		ID:      review.ID,
		ClubID:  review.ClubID,
		UserID:  review.UserID,
		Date:    review.Date,
		Rating:  review.Rating,
		Comment: review.Comment,
	}
}

// fieldMessages are the client-facing messages for validation failures, keyed
// by struct field name.
var fieldMessages = map[string]string{
	"Username":    "Invalid username. Must be 1-80 characters",
	"Password":    "Invalid password. Must be 6-128 characters",
	"Name":        "Invalid name. Must be 1-255 characters",
	"Code":        "Invalid code. Must be 1-255 characters",
	"Description": "Description must be less than 1000 characters",
	"Rating":      "Rating must be an integer between 1 and 5",
	"Comment":     "Comment must be less than 1000 characters",
	"Tags":        "Invalid tag name. Must be 1-80 characters",
}

// validationMessage turns the first validator error into a client-facing
// message.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		if msg, ok := fieldMessages[first.StructField()]; ok {
			return msg
		}
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", first.Field(), first.Tag())
	}
	return "Validation failed"
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return uint(id), nil
}
