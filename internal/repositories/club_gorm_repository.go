package repositories

import (
	"errors"
	"fmt"

	"clubreview/internal/models"

	"gorm.io/gorm"
)

// GORMClubRepository is a GORM implementation of ClubRepository.
type GORMClubRepository struct {
	db *gorm.DB
}

// NewGORMClubRepository creates a new instance of GORMClubRepository.
func NewGORMClubRepository(db *gorm.DB) *GORMClubRepository {
	return &GORMClubRepository{
		db: db,
	}
}

// GetAll retrieves all clubs with their tags and reviews preloaded.
func (r *GORMClubRepository) GetAll() ([]models.Club, error) {
	var clubs []models.Club
	if err := r.db.Preload("Tags").Preload("Reviews").Find(&clubs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all clubs: %w", err)
	}
	return clubs, nil
}

// GetByID retrieves a single club by its ID, with tags and reviews preloaded.
func (r *GORMClubRepository) GetByID(id uint) (*models.Club, error) {
	var club models.Club
	if err := r.db.Preload("Tags").Preload("Reviews").First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("club with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get club by ID %d: %w", id, err)
	}
	return &club, nil
}

// GetByCode retrieves a single club by its unique code.
func (r *GORMClubRepository) GetByCode(code string) (*models.Club, error) {
	var club models.Club
	if err := r.db.Preload("Tags").Preload("Reviews").First(&club, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("club with code %s: %w", code, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get club by code %s: %w", code, err)
	}
	return &club, nil
}

// SearchByName retrieves clubs whose name contains the query,
// case-insensitively.
func (r *GORMClubRepository) SearchByName(query string) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.Preload("Tags").Preload("Reviews").
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Find(&clubs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search clubs by name %q: %w", query, err)
	}
	return clubs, nil
}

// Create inserts the club and its tag links in one transaction. Tags are
// upserted by name so a club never references a tag that was not committed
// with it.
func (r *GORMClubRepository) Create(club *models.Club, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return fmt.Errorf("failed to upsert tag %q: %w", name, err)
			}
			tags = append(tags, tag)
		}

		if err := tx.Create(club).Error; err != nil {
			return fmt.Errorf("failed to create club: %w", err)
		}

		if len(tags) > 0 {
			if err := tx.Model(club).Association("Tags").Append(&tags); err != nil {
				return fmt.Errorf("failed to link tags to club: %w", err)
			}
		}
		club.Tags = tags
		return nil
	})
}

// UpdateName changes only the name column for the given club.
func (r *GORMClubRepository) UpdateName(id uint, name string) error {
	return r.updateColumn(id, "name", name)
}

// UpdateDescription changes only the description column for the given club.
func (r *GORMClubRepository) UpdateDescription(id uint, description string) error {
	return r.updateColumn(id, "description", description)
}

// UpdateCode changes only the code column for the given club.
func (r *GORMClubRepository) UpdateCode(id uint, code string) error {
	return r.updateColumn(id, "code", code)
}

// UpdateRating persists a recomputed average rating. A nil rating clears the
// column (club has no reviews).
func (r *GORMClubRepository) UpdateRating(id uint, rating *float64) error {
	res := r.db.Model(&models.Club{}).Where("id = ?", id).Update("rating", rating)
	if res.Error != nil {
		return fmt.Errorf("failed to update rating for club %d: %w", id, res.Error)
	}
	return nil
}

func (r *GORMClubRepository) updateColumn(id uint, column string, value interface{}) error {
	res := r.db.Model(&models.Club{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s for club %d: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("club with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// AddFavorite records that the user favorited the club. The join row insert
// and the favorite_count increment are a single transaction so the counter
// cannot drift from the join table.
func (r *GORMClubRepository) AddFavorite(userID, clubID uint) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.FavoriteClub
		err := tx.First(&existing, "user_id = ? AND club_id = ?", userID, clubID).Error
		if err == nil {
			return nil // already favorited, nothing to do
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing favorite: %w", err)
		}

		if err := tx.Create(&models.FavoriteClub{UserID: userID, ClubID: clubID}).Error; err != nil {
			return fmt.Errorf("failed to create favorite link: %w", err)
		}
		if err := tx.Model(&models.Club{}).Where("id = ?", clubID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment favorite count: %w", err)
		}
		added = true
		return nil
	})
	return added, err
}

// RemoveFavorite deletes the favorite link if present and decrements the
// count in the same transaction. Removing an absent favorite is a no-op.
func (r *GORMClubRepository) RemoveFavorite(userID, clubID uint) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.FavoriteClub{}, "user_id = ? AND club_id = ?", userID, clubID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete favorite link: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Club{}).Where("id = ?", clubID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count - 1")).Error; err != nil {
			return fmt.Errorf("failed to decrement favorite count: %w", err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// GetFavoritedBy retrieves the users who favorited the club.
func (r *GORMClubRepository) GetFavoritedBy(clubID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN favorite_clubs ON favorite_clubs.user_id = users.id").
		Where("favorite_clubs.club_id = ?", clubID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users who favorited club %d: %w", clubID, err)
	}
	return users, nil
}
