package models

import "time"

// User represents a registered account on the platform.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(80);not null" validate:"required,min=1,max=80"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`

	Favorites []Club   `json:"-" gorm:"many2many:favorite_clubs"`
	Reviews   []Review `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
