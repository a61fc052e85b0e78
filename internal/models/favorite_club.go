package models

import "time"

// FavoriteClub is the explicit join row recording that a user bookmarked a
// club. Club.FavoriteCount must always equal the number of these rows for the
// club, which is why inserts/deletes happen in the same transaction as the
// counter update.
type FavoriteClub struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	ClubID    uint      `json:"club_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the join table name in sync with the many2many tags on
// User and Club.
func (FavoriteClub) TableName() string {
	return "favorite_clubs"
}
