package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"moim/internal/services"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// Upload receives a multipart image and pushes it to the image host.
// Returns the public URL for embedding in post content.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		Error(c, http.StatusBadRequest, "Please attach an image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		Error(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	if header.Size > maxUploadSize {
		Error(c, http.StatusBadRequest, "Images must be at most 10MB")
		return
	}

	result, err := services.UploadImage(file, header)
	if err != nil {
		Error(c, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": result.URL})
}
