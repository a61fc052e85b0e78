package database

import (
	"fmt"

	"clubreview/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database selected by driver. "sqlite" treats dsn as a
// file path (or ":memory:" style DSN); "postgres" treats it as a connection
// string.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate registers the explicit join-table models and creates/updates the
// schema. The join tables must be registered before AutoMigrate so that the
// many2many associations use the composite-key models instead of implicit
// ones.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Club{}, "Tags", &models.ClubTag{}); err != nil {
		return fmt.Errorf("failed to set up club_tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Tag{}, "Clubs", &models.ClubTag{}); err != nil {
		return fmt.Errorf("failed to set up club_tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.User{}, "Favorites", &models.FavoriteClub{}); err != nil {
		return fmt.Errorf("failed to set up favorite_clubs join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Club{}, "FavoritedBy", &models.FavoriteClub{}); err != nil {
		return fmt.Errorf("failed to set up favorite_clubs join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Tag{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
