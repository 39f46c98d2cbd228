package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"moim/internal/cache"
	"moim/internal/db"
	"moim/internal/logger"
	"moim/internal/models"
	"moim/internal/services"
	"moim/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	postsPerPage   = 10
	maxTitleLength = 50

	listCacheTTL   = 1 * time.Minute
	detailCacheTTL = 5 * time.Minute

	// A view from the same client only counts once per this window.
	viewDedupWindow = 24 * time.Hour
)

type PostHandler struct {
	comments *services.CommentService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		comments: services.NewCommentService(db.DB),
	}
}

func listCacheKey(page int) string {
	return fmt.Sprintf("posts:list:page:%d", page)
}

func detailCacheKey(postID uint) string {
	return fmt.Sprintf("posts:detail:%d", postID)
}

type postListResponse struct {
	Posts       []models.Post `json:"posts"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	TotalPosts  int64         `json:"total_posts"`
}

type postDetailResponse struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// List returns a page of posts, newest first, optionally filtered by keyword.
func (h *PostHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	keyword := c.Query("keyword")

	// Only unfiltered pages are cached; keyword queries are long-tail.
	cacheable := keyword == ""
	if cacheable {
		var cached postListResponse
		if cache.GetJSON(c.Request.Context(), listCacheKey(page), &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	query := db.DB.Model(&models.Post{})
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}
	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	if err := query.
		Order("created_at DESC").
		Limit(postsPerPage).
		Offset((page - 1) * postsPerPage).
		Find(&posts).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}

	if err := h.comments.FillCommentCounts(c.Request.Context(), posts); err != nil {
		logger.L.Warnf("Failed to fill comment counts: %v", err)
	}
	fillVoteCounts(posts)

	resp := postListResponse{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
	}
	if cacheable {
		cache.SetJSON(c.Request.Context(), listCacheKey(page), resp, listCacheTTL)
	}
	c.JSON(http.StatusOK, resp)
}

// Detail returns the post together with its full comment thread: the flat
// path-sorted sequence from the comment engine. Clients indent by depth; there
// is no nested structure to build.
func (h *PostHandler) Detail(c *gin.Context) {
	postID := uint(utils.StringToInt(c.Param("id")))

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Error(c, http.StatusNotFound, "Post not found")
		} else {
			Error(c, http.StatusInternalServerError, "Failed to load post")
		}
		return
	}

	if h.countView(c, post.ID) {
		if err := db.DB.Model(&post).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err == nil {
			post.Views++
		}
	}

	// The comment list is the expensive part; serve it from cache when fresh.
	var cached []models.Comment
	if !cache.GetJSON(c.Request.Context(), detailCacheKey(post.ID), &cached) {
		comments, err := h.comments.ListForPost(c.Request.Context(), post.ID)
		if err != nil {
			Error(c, http.StatusInternalServerError, "Failed to load comments")
			return
		}
		for i := range comments {
			comments[i].ContentHTML = utils.RenderMarkdown(comments[i].Content)
		}
		cached = comments
		cache.SetJSON(c.Request.Context(), detailCacheKey(post.ID), cached, detailCacheTTL)
	}
	if cached == nil {
		cached = []models.Comment{}
	}

	post.ContentHTML = utils.RenderMarkdown(post.Content)
	post.CommentCount = int64(len(cached))
	h.fillVoteCountsFor(&post)

	c.JSON(http.StatusOK, postDetailResponse{Post: post, Comments: cached})
}

// countView reports whether this request should bump the view counter and
// stamps the session so repeats inside the window don't.
func (h *PostHandler) countView(c *gin.Context, postID uint) bool {
	session := sessions.Default(c)
	key := fmt.Sprintf("viewed_%d", postID)

	if raw := session.Get(key); raw != nil {
		if ts, ok := raw.(int64); ok && time.Since(time.Unix(ts, 0)) < viewDedupWindow {
			return false
		}
	}

	session.Set(key, time.Now().Unix())
	if err := session.Save(); err != nil {
		logger.L.Warnf("Failed to save view session: %v", err)
	}
	return true
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create publishes a new post with the author snapshot stamped on.
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		Error(c, http.StatusBadRequest, "Title and content are required")
		return
	}
	if len([]rune(title)) > maxTitleLength {
		Error(c, http.StatusBadRequest, "Title must be at most 50 characters")
		return
	}

	post := models.Post{
		Title:   title,
		Content: content,
		Author:  models.Author{ID: user.ID, Nickname: user.Nickname},
	}
	if err := db.DB.Create(&post).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	cache.Delete(c.Request.Context(), listCacheKey(1))
	c.JSON(http.StatusCreated, post)
}

// Update edits a post. Only the author may edit.
func (h *PostHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	postID := uint(utils.StringToInt(c.Param("id")))

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.Author.ID != user.ID {
		Error(c, http.StatusForbidden, "Only the author can edit this post")
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		Error(c, http.StatusBadRequest, "Title and content are required")
		return
	}
	if len([]rune(title)) > maxTitleLength {
		Error(c, http.StatusBadRequest, "Title must be at most 50 characters")
		return
	}

	post.Title = title
	post.Content = content
	if err := db.DB.Save(&post).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	cache.Delete(c.Request.Context(), detailCacheKey(post.ID), listCacheKey(1))
	c.JSON(http.StatusOK, post)
}

// Delete removes a post and cascades over its comments in one transaction, so
// no comment row can outlive its post.
func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	postID := uint(utils.StringToInt(c.Param("id")))

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.Author.ID != user.ID {
		Error(c, http.StatusForbidden, "Only the author can delete this post")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.comments.DeleteForPost(tx, post.ID); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		logger.L.Errorf("Failed to delete post %d: %v", post.ID, err)
		Error(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	cache.Delete(c.Request.Context(), detailCacheKey(post.ID), listCacheKey(1))
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// fillVoteCounts batch-loads like/dislike counts for a page of posts.
func fillVoteCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type voteCount struct {
		PostID uint
		Value  int
		Count  int64
	}
	var results []voteCount
	db.DB.Model(&models.Vote{}).
		Select("post_id, value, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id, value").
		Scan(&results)

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, r := range results {
		if r.Value > 0 {
			likes[r.PostID] = r.Count
		} else {
			dislikes[r.PostID] = r.Count
		}
	}
	for i := range posts {
		posts[i].LikeCount = likes[posts[i].ID]
		posts[i].DislikeCount = dislikes[posts[i].ID]
	}
}

func (h *PostHandler) fillVoteCountsFor(post *models.Post) {
	db.DB.Model(&models.Vote{}).
		Where("post_id = ? AND value = 1", post.ID).
		Count(&post.LikeCount)
	db.DB.Model(&models.Vote{}).
		Where("post_id = ? AND value = -1", post.ID).
		Count(&post.DislikeCount)
}
