package models

import (
	"time"
)

// Vote replaces the "arrays of user ids on the post" reaction model with one
// row per (user, post). Toggling is handled in the vote handler.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 like, -1 dislike
	CreatedAt time.Time `json:"created_at"`
}
