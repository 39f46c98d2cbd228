package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Nickname     string    `gorm:"size:40;not null" json:"nickname"`
	Password     string    `json:"-"`                                                // bcrypt hash, empty for social accounts
	Provider     string    `gorm:"size:20;default:'local';not null" json:"provider"` // local, google, naver, kakao
	SnsID        string    `gorm:"index" json:"-"`                                   // id at the social provider
	ProfileImage string    `json:"profile_image"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Author is the {id, nickname} snapshot stamped onto posts and comments at
// creation time. Deliberately denormalized: a nickname change does not rewrite
// history until the profile sync runs.
type Author struct {
	ID       uint   `json:"id"`
	Nickname string `gorm:"size:40" json:"nickname"`
}
