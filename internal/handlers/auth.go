package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"moim/internal/db"
	"moim/internal/middleware"
	"moim/internal/models"
	"moim/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Validation rules shared with the frontend.
var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordRegex = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,20}$`)
	nicknameRegex = regexp.MustCompile(`^[가-힣a-zA-Z0-9]{2,10}$`)
)

// validPassword requires 8-20 chars from the allowed set with at least one
// letter and one digit.
func validPassword(password string) bool {
	if !passwordRegex.MatchString(password) {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// Signup registers a local account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)
	nickname := strings.TrimSpace(req.Nickname)

	if email == "" || password == "" || nickname == "" {
		Error(c, http.StatusBadRequest, "Email, password and nickname are all required")
		return
	}
	if !emailRegex.MatchString(email) {
		Error(c, http.StatusBadRequest, "Invalid email format")
		return
	}
	if !validPassword(password) {
		Error(c, http.StatusBadRequest, "Password must be 8-20 characters with letters and digits")
		return
	}
	if !nicknameRegex.MatchString(nickname) {
		Error(c, http.StatusBadRequest, "Nickname must be 2-10 letters, digits or hangul")
		return
	}

	var existing models.User
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		Error(c, http.StatusConflict, "Email is already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		Error(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	user := models.User{
		Email:    email,
		Password: hash,
		Nickname: nickname,
		Provider: "local",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a local account and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Error(c, http.StatusUnauthorized, "Unknown email or wrong password")
		return
	}

	if user.Password == "" {
		// Social account without a local password.
		Error(c, http.StatusBadRequest, "This email is registered through "+user.Provider+" login")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		Error(c, http.StatusUnauthorized, "Unknown email or wrong password")
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
