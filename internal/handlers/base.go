package handlers

import (
	"errors"
	"net/http"

	"moim/internal/db"
	"moim/internal/middleware"
	"moim/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error writes the error shape every endpoint uses.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// currentUser loads the authenticated user's row. Writes the response itself
// when the account no longer exists, so callers can just return.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Error(c, http.StatusNotFound, "User not found")
		} else {
			Error(c, http.StatusInternalServerError, "Failed to load user")
		}
		return nil, false
	}
	return &user, true
}
