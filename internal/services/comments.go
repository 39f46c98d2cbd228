package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"moim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PathSeparator joins ancestor ids into a comment's path. The comma (0x2C)
// sorts below every character a UUID can contain, which is what makes
// "ORDER BY path" equal to a depth-first traversal: a parent's path is a
// strict prefix of all of its descendants' paths, and the separator keeps
// those descendants ahead of the parent's next sibling.
const PathSeparator = ","

// MaxContentLength bounds comment content, counted in runes - the board is
// multibyte-heavy and byte counts would shortchange non-ASCII users.
const MaxContentLength = 200

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrAuthorNotFound  = errors.New("user not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content must be at most 200 characters")
	ErrParentMismatch  = errors.New("parent comment belongs to a different post")
	ErrNotCommentOwner = errors.New("not the comment author")
)

// CommentService owns the threaded-comment tree: path assignment on create,
// path-ordered retrieval, soft deletion, and the cascade when a post goes away.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Content  string
	ParentID *string
}

// Create validates the input, resolves post/author/parent and persists the
// comment with its depth and path. The id is a UUIDv7 minted before the
// INSERT, so the path is known up front and the whole comment - path included -
// is written in a single atomic statement; no reader ever sees a comment
// without its path. UUIDv7 text form is fixed-width and time-ordered, so
// sibling paths sort in creation order.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	tx := s.db.WithContext(ctx)

	var post models.Post
	if err := tx.First(&post, in.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	var author models.User
	if err := tx.First(&author, in.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("load author: %w", err)
	}

	var parent *models.Comment
	if in.ParentID != nil && *in.ParentID != "" {
		var p models.Comment
		if err := tx.Where("id = ?", *in.ParentID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		// Cross-post replies would corrupt the per-post path ordering.
		if p.PostID != post.ID {
			return nil, ErrParentMismatch
		}
		parent = &p
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate comment id: %w", err)
	}

	comment := models.Comment{
		ID:      id.String(),
		PostID:  post.ID,
		Author:  models.Author{ID: author.ID, Nickname: author.Nickname},
		Content: content,
	}
	if parent == nil {
		comment.Depth = 0
		comment.Path = comment.ID
	} else {
		comment.Depth = parent.Depth + 1
		comment.Path = parent.Path + PathSeparator + comment.ID
		comment.ParentID = &parent.ID
	}

	if err := tx.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return &comment, nil
}

// ListForPost returns every live comment of a post in display order: ascending
// path, i.e. depth-first with parents before children and siblings in creation
// order. Callers render the flat list directly, indenting by Depth; no tree is
// assembled anywhere.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("path ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// SoftDelete hides a comment from retrieval. Only the flag flips: the row,
// its path and its depth stay put so descendant paths keep their prefix and
// replies remain readable.
func (s *CommentService) SoftDelete(ctx context.Context, commentID string, userID uint) (*models.Comment, error) {
	tx := s.db.WithContext(ctx)

	var comment models.Comment
	if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}

	if comment.Author.ID != userID {
		return nil, ErrNotCommentOwner
	}

	if err := tx.Model(&comment).Update("is_deleted", true).Error; err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	comment.IsDeleted = true
	return &comment, nil
}

// DeleteForPost hard-deletes every comment of a post, soft-deleted ones
// included. It takes the caller's transaction so the cascade commits together
// with the post deletion and no comment outlives its post.
func (s *CommentService) DeleteForPost(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments of post %d: %w", postID, err)
	}
	return nil
}

// SyncAuthorNickname rewrites the denormalized nickname on every post and
// comment by the user. Maintenance write, not scoped to one post and not
// transactional with the profile update: it never touches path, depth or
// parent linkage, so a partial or repeated run cannot corrupt the tree.
func (s *CommentService) SyncAuthorNickname(ctx context.Context, userID uint, nickname string) error {
	tx := s.db.WithContext(ctx)
	if err := tx.Model(&models.Post{}).
		Where("author_id = ?", userID).
		Update("author_nickname", nickname).Error; err != nil {
		return fmt.Errorf("sync nickname on posts: %w", err)
	}
	if err := tx.Model(&models.Comment{}).
		Where("author_id = ?", userID).
		Update("author_nickname", nickname).Error; err != nil {
		return fmt.Errorf("sync nickname on comments: %w", err)
	}
	return nil
}

// FillCommentCounts batch-loads live comment counts for a page of posts.
func (s *CommentService) FillCommentCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int64
	}
	var results []countResult
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ? AND is_deleted = ?", postIDs, false).
		Group("post_id").
		Scan(&results).Error; err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	countMap := make(map[uint]int64, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}
