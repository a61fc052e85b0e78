package repositories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"clubreview/internal/models"

	"gorm.io/gorm"
)

// MockClubRepository is an in-memory implementation of ClubRepository.
type MockClubRepository struct {
	clubs     map[uint]models.Club
	tags      map[string]models.Tag
	favorites map[[2]uint]models.FavoriteClub // keyed by (userID, clubID)
	nextID    uint
	nextTagID uint
	mu        sync.RWMutex
}

// NewMockClubRepository creates a new instance of MockClubRepository.
func NewMockClubRepository() *MockClubRepository {
	return &MockClubRepository{
		clubs:     make(map[uint]models.Club),
		tags:      make(map[string]models.Tag),
		favorites: make(map[[2]uint]models.FavoriteClub),
		nextID:    1,
		nextTagID: 1,
	}
}

// GetAll returns all clubs.
func (r *MockClubRepository) GetAll() ([]models.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clubList := make([]models.Club, 0, len(r.clubs))
	for _, club := range r.clubs {
		clubList = append(clubList, club)
	}
	return clubList, nil
}

// GetByID returns a club by its ID.
func (r *MockClubRepository) GetByID(id uint) (*models.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	club, ok := r.clubs[id]
	if !ok {
		return nil, fmt.Errorf("club with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return &club, nil
}

// GetByCode returns a club by its unique code.
func (r *MockClubRepository) GetByCode(code string) (*models.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, club := range r.clubs {
		if club.Code == code {
			return &club, nil
		}
	}
	return nil, fmt.Errorf("club with code %s: %w", code, gorm.ErrRecordNotFound)
}

// SearchByName returns clubs whose name contains the query, ignoring case.
func (r *MockClubRepository) SearchByName(query string) ([]models.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(query)
	var clubList []models.Club
	for _, club := range r.clubs {
		if strings.Contains(strings.ToLower(club.Name), lowered) {
			clubList = append(clubList, club)
		}
	}
	return clubList, nil
}

// Create adds a new club and upserts its tags by name.
func (r *MockClubRepository) Create(club *models.Club, tagNames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.clubs {
		if existing.Code == club.Code {
			return fmt.Errorf("club with code %s already exists: %w", club.Code, gorm.ErrDuplicatedKey)
		}
	}

	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, ok := r.tags[name]
		if !ok {
			tag = models.Tag{ID: r.nextTagID, Name: name, CreatedAt: time.Now()}
			r.nextTagID++
			r.tags[name] = tag
		}
		tags = append(tags, tag)
	}

	if club.ID == 0 {
		club.ID = r.nextID
		r.nextID++
	}
	club.Tags = tags
	club.CreatedAt = time.Now()
	club.UpdatedAt = time.Now()
	r.clubs[club.ID] = *club
	return nil
}

// UpdateName changes only the name of a club.
func (r *MockClubRepository) UpdateName(id uint, name string) error {
	return r.update(id, func(club *models.Club) { club.Name = name })
}

// UpdateDescription changes only the description of a club.
func (r *MockClubRepository) UpdateDescription(id uint, description string) error {
	return r.update(id, func(club *models.Club) { club.Description = description })
}

// UpdateCode changes only the code of a club.
func (r *MockClubRepository) UpdateCode(id uint, code string) error {
	return r.update(id, func(club *models.Club) { club.Code = code })
}

// UpdateRating persists a recomputed average rating.
func (r *MockClubRepository) UpdateRating(id uint, rating *float64) error {
	return r.update(id, func(club *models.Club) { club.Rating = rating })
}

func (r *MockClubRepository) update(id uint, apply func(*models.Club)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	club, ok := r.clubs[id]
	if !ok {
		return fmt.Errorf("club with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	apply(&club)
	club.UpdatedAt = time.Now()
	r.clubs[id] = club
	return nil
}

// AddFavorite links the user to the club, bumping the favorite count.
func (r *MockClubRepository) AddFavorite(userID, clubID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	club, ok := r.clubs[clubID]
	if !ok {
		return false, fmt.Errorf("club with ID %d: %w", clubID, gorm.ErrRecordNotFound)
	}
	key := [2]uint{userID, clubID}
	if _, exists := r.favorites[key]; exists {
		return false, nil
	}
	r.favorites[key] = models.FavoriteClub{UserID: userID, ClubID: clubID, CreatedAt: time.Now()}
	club.FavoriteCount++
	r.clubs[clubID] = club
	return true, nil
}

// RemoveFavorite unlinks the user from the club, decrementing the count.
func (r *MockClubRepository) RemoveFavorite(userID, clubID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	club, ok := r.clubs[clubID]
	if !ok {
		return false, fmt.Errorf("club with ID %d: %w", clubID, gorm.ErrRecordNotFound)
	}
	key := [2]uint{userID, clubID}
	if _, exists := r.favorites[key]; !exists {
		return false, nil
	}
	delete(r.favorites, key)
	club.FavoriteCount--
	r.clubs[clubID] = club
	return true, nil
}

// GetFavoritedBy returns stub users for everyone who favorited the club.
func (r *MockClubRepository) GetFavoritedBy(clubID uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []models.User
	for key := range r.favorites {
		if key[1] == clubID {
			users = append(users, models.User{ID: key[0]})
		}
	}
	return users, nil
}
