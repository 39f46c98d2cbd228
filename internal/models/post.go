package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Author    Author    `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Title     string    `gorm:"size:50;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Views     int       `gorm:"default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，查询时填充
	CommentCount int64  `gorm:"-" json:"comment_count"`
	LikeCount    int64  `gorm:"-" json:"like_count"`
	DislikeCount int64  `gorm:"-" json:"dislike_count"`
	ContentHTML  string `gorm:"-" json:"content_html,omitempty"`
}
