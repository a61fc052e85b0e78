package handlers

import (
	"errors"
	"log"

	"clubreview/internal/models"
	"clubreview/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for tags. Tags are read-only over HTTP;
// they come into existence through club creation.
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tags := router.Group("/tags")
	tags.Get("/", h.HandleGetTags)
	tags.Get("/:id", h.HandleGetTag)
	tags.Get("/:id/name", h.HandleGetName)
	tags.Get("/:id/clubs", h.HandleGetClubs)
	tags.Get("/:id/clubs_count", h.HandleGetClubsCount)
}

// HandleGetTags retrieves all tags with their club ids and counts.
func (h *TagHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.tagService.GetAllTags()
	if err != nil {
		log.Printf("Error getting all tags: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	result := make([]fiber.Map, 0, len(tags))
	for _, tag := range tags {
		result = append(result, fiber.Map{
			"id":    tag.ID,
			"name":  tag.Name,
			"clubs": clubIDs(tag.Clubs),
			"count": len(tag.Clubs),
		})
	}
	return c.JSON(result)
}

// HandleGetTag retrieves a single tag with its club ids.
func (h *TagHandler) HandleGetTag(c *fiber.Ctx) error {
	tag, ok := h.fetchTag(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"id":    tag.ID,
		"name":  tag.Name,
		"clubs": clubIDs(tag.Clubs),
	})
}

// HandleGetName returns just the tag's name.
func (h *TagHandler) HandleGetName(c *fiber.Ctx) error {
	tag, ok := h.fetchTag(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"name": tag.Name})
}

// HandleGetClubs returns the clubs carrying the tag.
func (h *TagHandler) HandleGetClubs(c *fiber.Ctx) error {
	tag, ok := h.fetchTag(c)
	if !ok {
		return nil
	}

	clubs := make([]fiber.Map, 0, len(tag.Clubs))
	for _, club := range tag.Clubs {
		clubs = append(clubs, fiber.Map{"id": club.ID, "name": club.Name})
	}
	return c.JSON(clubs)
}

// HandleGetClubsCount returns how many clubs carry the tag.
func (h *TagHandler) HandleGetClubsCount(c *fiber.Ctx) error {
	tag, ok := h.fetchTag(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"clubs_count": len(tag.Clubs)})
}

// fetchTag loads the tag named by the :id param, writing the error response
// itself when the id is malformed or the tag is missing.
func (h *TagHandler) fetchTag(c *fiber.Ctx) (*models.Tag, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tag id"})
		return nil, false
	}

	tag, err := h.tagService.GetTagByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tag not found"})
		} else {
			log.Printf("Error getting tag %d: %v", id, err)
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		return nil, false
	}
	return tag, true
}

func clubIDs(clubs []models.Club) []uint {
	ids := make([]uint, 0, len(clubs))
	for _, club := range clubs {
		ids = append(ids, club.ID)
	}
	return ids
}
