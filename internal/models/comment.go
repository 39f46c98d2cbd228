package models

import (
	"time"
)

// Comment rows are flat; the tree lives in Path. Every descendant's path
// extends its ancestor's path, so ORDER BY path is a depth-first traversal
// with parents before children.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUIDv7, sorts in creation order
	PostID    uint      `gorm:"not null;index:idx_comments_post_path,priority:1" json:"post_id"`
	Author    Author    `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	ParentID  *string   `gorm:"size:36;index" json:"parent_comment_id"` // nil for top-level comments
	Content   string    `gorm:"size:200;not null" json:"content"`
	Depth     int       `gorm:"not null;default:0" json:"depth"`
	Path      string    `gorm:"not null;index:idx_comments_post_path,priority:2" json:"path"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`

	ContentHTML string `gorm:"-" json:"content_html,omitempty"`
}
