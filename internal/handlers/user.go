package handlers

import (
	"net/http"
	"strings"

	"moim/internal/db"
	"moim/internal/logger"
	"moim/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	comments *services.CommentService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		comments: services.NewCommentService(db.DB),
	}
}

type updateProfileRequest struct {
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

// UpdateProfile changes the caller's nickname and avatar, then propagates the
// new nickname into the denormalized author snapshots on their posts and
// comments. The sync is best-effort maintenance: a failure logs and the
// profile update still stands, because snapshots never affect tree structure
// and the sync can simply run again.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		Error(c, http.StatusBadRequest, "Nickname is required")
		return
	}
	if !nicknameRegex.MatchString(nickname) {
		Error(c, http.StatusBadRequest, "Nickname must be 2-10 letters, digits or hangul")
		return
	}

	user.Nickname = nickname
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}
	if err := db.DB.Save(user).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if err := h.comments.SyncAuthorNickname(c.Request.Context(), user.ID, nickname); err != nil {
		logger.L.Warnf("Nickname sync for user %d incomplete: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, user)
}
