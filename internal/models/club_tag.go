package models

import "time"

// ClubTag is the explicit join row linking a club to a tag.
type ClubTag struct {
	ClubID    uint      `json:"club_id" gorm:"primaryKey"`
	TagID     uint      `json:"tag_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the join table name in sync with the many2many tags on
// Club and Tag.
func (ClubTag) TableName() string {
	return "club_tags"
}
