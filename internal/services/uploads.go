package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// imgurUploadURL is a var so tests can point it at a stub server.
var imgurUploadURL = "https://api.imgur.com/3/image"

// ImgurResponse mirrors the fields we use of the Imgur API response.
type ImgurResponse struct {
	Data struct {
		ID         string `json:"id"`
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
		Type       string `json:"type"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

type ImageUploadResult struct {
	URL         string `json:"url"`
	OriginalURL string `json:"original_url"`
	ID          string `json:"id"`
}

// UploadImage pushes an image to Imgur and returns the public URL. When
// IMAGE_CDN_DOMAIN is set the returned URL is rewritten to the CDN host.
func UploadImage(file multipart.File, header *multipart.FileHeader) (*ImageUploadResult, error) {
	clientID := os.Getenv("IMGUR_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("IMGUR_CLIENT_ID is not configured")
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	base64Image := base64.StdEncoding.EncodeToString(fileBytes)

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)
	if err := writer.WriteField("image", base64Image); err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}
	if err := writer.WriteField("type", "base64"); err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, imgurUploadURL, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload to imgur: %w", err)
	}
	defer resp.Body.Close()

	var imgurResp ImgurResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgurResp); err != nil {
		return nil, fmt.Errorf("decode imgur response: %w", err)
	}
	if !imgurResp.Success || imgurResp.Data.Link == "" {
		return nil, fmt.Errorf("imgur upload failed with status %d", imgurResp.Status)
	}

	result := &ImageUploadResult{
		URL:         imgurResp.Data.Link,
		OriginalURL: imgurResp.Data.Link,
		ID:          imgurResp.Data.ID,
	}
	if cdn := os.Getenv("IMAGE_CDN_DOMAIN"); cdn != "" {
		result.URL = fmt.Sprintf("%s/%s.%s", cdn, imgurResp.Data.ID, extensionOf(imgurResp.Data.Type))
	}
	return result, nil
}

func extensionOf(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
