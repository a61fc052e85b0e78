package models

import "time"

// Review is one user's rating and comment for one club. A user may review a
// given club at most once, enforced by the composite unique index.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ClubID    uint      `json:"club_id" gorm:"uniqueIndex:idx_reviews_club_user;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_reviews_club_user;not null"`
	Date      time.Time `json:"date"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"type:text;default:''"`
	CreatedAt time.Time `json:"created_at"`

	Club *Club `json:"-"`
	User *User `json:"-"`
}
