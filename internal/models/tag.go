package models

import "time"

// Tag is a named label attachable to many clubs. Tags are upserted by name
// when clubs are created.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;type:varchar(80);not null"`
	CreatedAt time.Time `json:"created_at"`

	Clubs []Club `json:"-" gorm:"many2many:club_tags"`
}
