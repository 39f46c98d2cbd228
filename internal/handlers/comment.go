package handlers

import (
	"errors"
	"net/http"

	"moim/internal/cache"
	"moim/internal/db"
	"moim/internal/middleware"
	"moim/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		comments: services.NewCommentService(db.DB),
	}
}

type createCommentRequest struct {
	PostID          uint    `json:"post_id"`
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parent_comment_id"`
}

// Create posts a comment or a reply. Depth and path come back assigned; the
// response body is the fully formed comment record.
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), services.CreateCommentInput{
		PostID:   req.PostID,
		AuthorID: middleware.CurrentUserID(c),
		Content:  req.Content,
		ParentID: req.ParentCommentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent),
			errors.Is(err, services.ErrContentTooLong),
			errors.Is(err, services.ErrParentMismatch):
			Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPostNotFound),
			errors.Is(err, services.ErrAuthorNotFound),
			errors.Is(err, services.ErrParentNotFound):
			Error(c, http.StatusNotFound, err.Error())
		default:
			Error(c, http.StatusInternalServerError, "Failed to save comment")
		}
		return
	}

	cache.Delete(c.Request.Context(), detailCacheKey(comment.PostID))
	c.JSON(http.StatusCreated, comment)
}

// Delete soft-deletes the caller's own comment. Replies below it stay visible
// at their original depth.
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, err := h.comments.SoftDelete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotCommentOwner):
			Error(c, http.StatusForbidden, err.Error())
		default:
			Error(c, http.StatusInternalServerError, "Failed to delete comment")
		}
		return
	}

	cache.Delete(c.Request.Context(), detailCacheKey(comment.PostID))
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
