package services

import (
	"fmt"

	"clubreview/internal/models"
	"clubreview/internal/repositories"
	"clubreview/pkg/rabbitmq"
)

// ClubService handles business logic related to clubs, their tags, and their
// favorite links.
type ClubService struct {
	clubRepo repositories.ClubRepository
	userRepo repositories.UserRepository
	mqClient *rabbitmq.Client
}

// NewClubService creates a new ClubService. mqClient may be nil, in which
// case lifecycle events are not published.
func NewClubService(clubRepo repositories.ClubRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *ClubService {
	return &ClubService{
		clubRepo: clubRepo,
		userRepo: userRepo,
		mqClient: mqClient,
	}
}

// GetAllClubs retrieves all clubs.
func (s *ClubService) GetAllClubs() ([]models.Club, error) {
	return s.clubRepo.GetAll()
}

// GetClubByID retrieves a single club by its ID.
func (s *ClubService) GetClubByID(id uint) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return club, nil
}

// GetClubByCode retrieves a single club by its unique code.
func (s *ClubService) GetClubByCode(code string) (*models.Club, error) {
	club, err := s.clubRepo.GetByCode(code)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return club, nil
}

// SearchClubs retrieves clubs whose name contains the query,
// case-insensitively.
func (s *ClubService) SearchClubs(query string) ([]models.Club, error) {
	return s.clubRepo.SearchByName(query)
}

// CreateClub creates a new club with its tags upserted by name. The club code
// must be unique.
func (s *ClubService) CreateClub(name, code, description string, tagNames []string) (*models.Club, error) {
	if existing, err := s.clubRepo.GetByCode(code); err == nil && existing != nil {
		return nil, fmt.Errorf("club code %q already exists: %w", code, ErrConflict)
	}

	club := &models.Club{
		Name:        name,
		Code:        code,
		Description: description,
	}
	if err := s.clubRepo.Create(club, tagNames); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	publishEvent(s.mqClient, EventClubCreated, map[string]interface{}{
		"club_id": club.ID,
		"code":    club.Code,
		"name":    club.Name,
	})
	return club, nil
}

// UpdateName changes a club's name, leaving every other field untouched.
func (s *ClubService) UpdateName(id uint, name string) error {
	if _, err := s.clubRepo.GetByID(id); err != nil {
		return notFoundOr(err)
	}
	return s.clubRepo.UpdateName(id, name)
}

// UpdateDescription changes a club's description.
func (s *ClubService) UpdateDescription(id uint, description string) error {
	if _, err := s.clubRepo.GetByID(id); err != nil {
		return notFoundOr(err)
	}
	return s.clubRepo.UpdateDescription(id, description)
}

// UpdateCode changes a club's code. The new code must not belong to a
// different club.
func (s *ClubService) UpdateCode(id uint, code string) error {
	if _, err := s.clubRepo.GetByID(id); err != nil {
		return notFoundOr(err)
	}
	if existing, err := s.clubRepo.GetByCode(code); err == nil && existing != nil && existing.ID != id {
		return fmt.Errorf("club code %q already exists: %w", code, ErrConflict)
	}
	return s.clubRepo.UpdateCode(id, code)
}

// Favorite adds the club to the user's favorites. It reports whether the club
// was newly favorited; favoriting an already-favorited club is a no-op.
func (s *ClubService) Favorite(userID, clubID uint) (bool, error) {
	if _, err := s.clubRepo.GetByID(clubID); err != nil {
		return false, notFoundOr(err)
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return false, notFoundOr(err)
	}

	added, err := s.clubRepo.AddFavorite(userID, clubID)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	if added {
		publishEvent(s.mqClient, EventClubFavorited, map[string]interface{}{
			"club_id": clubID,
			"user_id": userID,
		})
	}
	return added, nil
}

// Unfavorite removes the club from the user's favorites. Removing an absent
// favorite is a no-op.
func (s *ClubService) Unfavorite(userID, clubID uint) (bool, error) {
	if _, err := s.clubRepo.GetByID(clubID); err != nil {
		return false, notFoundOr(err)
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return false, notFoundOr(err)
	}

	removed, err := s.clubRepo.RemoveFavorite(userID, clubID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	if removed {
		publishEvent(s.mqClient, EventClubUnfavorited, map[string]interface{}{
			"club_id": clubID,
			"user_id": userID,
		})
	}
	return removed, nil
}

// GetFavoritedBy retrieves the users who favorited a club.
func (s *ClubService) GetFavoritedBy(clubID uint) ([]models.User, error) {
	if _, err := s.clubRepo.GetByID(clubID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.clubRepo.GetFavoritedBy(clubID)
}
