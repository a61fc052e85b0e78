package models

import "time"

// Club represents a reviewable club.
// Rating and FavoriteCount are derived fields: Rating is the rounded mean of
// the club's review ratings (nil when there are none) and FavoriteCount tracks
// the cardinality of the favorite_clubs join rows. Neither is client-settable.
type Club struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"index;type:varchar(255);not null"`
	Code          string    `json:"code" gorm:"uniqueIndex;type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"type:text;default:''"`
	Rating        *float64  `json:"rating"`
	FavoriteCount int       `json:"favorite_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Reviews     []Review `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	FavoritedBy []User   `json:"-" gorm:"many2many:favorite_clubs"`
	Tags        []Tag    `json:"-" gorm:"many2many:club_tags"`
}
