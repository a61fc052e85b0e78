package repositories

import "clubreview/internal/models"

// TagRepository defines the interface for tag data access. Tag creation
// happens through club creation (tags are upserted by name there), so the
// read side is all this interface needs.
type TagRepository interface {
	GetAll() ([]models.Tag, error)
	GetByID(id uint) (*models.Tag, error)
}
