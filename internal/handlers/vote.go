package handlers

import (
	"errors"
	"net/http"

	"moim/internal/db"
	"moim/internal/models"
	"moim/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Like toggles the caller's like on a post.
func (h *VoteHandler) Like(c *gin.Context) {
	h.react(c, 1)
}

// Dislike toggles the caller's dislike on a post.
func (h *VoteHandler) Dislike(c *gin.Context) {
	h.react(c, -1)
}

// react implements the toggle semantics: pressing the same reaction again
// cancels it, pressing the opposite one swaps sides. One vote row per
// (user, post) at most.
func (h *VoteHandler) react(c *gin.Context, value int) {
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

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.Vote{UserID: user.ID, PostID: post.ID, Value: value}).Error
		case err != nil:
			return err
		case existing.Value == value:
			return tx.Delete(&existing).Error
		default:
			return tx.Model(&existing).Update("value", value).Error
		}
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "Failed to save reaction")
		return
	}

	var likes, dislikes int64
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND value = 1", post.ID).Count(&likes)
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND value = -1", post.ID).Count(&dislikes)

	var mine models.Vote
	isLiked, isDisliked := false, false
	if err := db.DB.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&mine).Error; err == nil {
		isLiked = mine.Value == 1
		isDisliked = mine.Value == -1
	}

	c.JSON(http.StatusOK, gin.H{
		"likes_count":    likes,
		"dislikes_count": dislikes,
		"is_liked":       isLiked,
		"is_disliked":    isDisliked,
	})
}
