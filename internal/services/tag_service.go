package services

import (
	"clubreview/internal/models"
	"clubreview/internal/repositories"
)

// TagService handles business logic related to tags. Tags are created through
// club creation, so this service only serves reads.
type TagService struct {
	tagRepo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repositories.TagRepository) *TagService {
	return &TagService{
		tagRepo: tagRepo,
	}
}

// GetAllTags retrieves all tags with their clubs.
func (s *TagService) GetAllTags() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

// GetTagByID retrieves a single tag by its ID with its clubs.
func (s *TagService) GetTagByID(id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return tag, nil
}
