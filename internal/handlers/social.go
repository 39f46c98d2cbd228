package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"moim/internal/db"
	"moim/internal/logger"
	"moim/internal/middleware"
	"moim/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var googleOauthConfig *oauth2.Config

// Provider endpoints are vars so tests can point them at stub servers.
var (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	naverTokenURL     = "https://nid.naver.com/oauth2.0/token"
	naverUserInfoURL  = "https://openapi.naver.com/v1/nid/me"
	kakaoTokenURL     = "https://kauth.kakao.com/oauth/token"
	kakaoUserInfoURL  = "https://kapi.kakao.com/v2/user/me"
)

var oauthClient = &http.Client{Timeout: 10 * time.Second}

// InitSocialAuth wires the Google OAuth config from env. Call once from main.
func InitSocialAuth() {
	clientOrigin := os.Getenv("CLIENT_ORIGIN")
	if clientOrigin == "" {
		clientOrigin = "http://localhost:5173"
	}

	googleOauthConfig = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  clientOrigin + "/auth/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// socialProfile is the provider-independent shape every login flow reduces to.
type socialProfile struct {
	Email        string
	Nickname     string
	ProfileImage string
	Provider     string
	SnsID        string
}

type socialCodeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// GoogleLogin exchanges the SPA's authorization code for a Google token, loads
// the profile and signs the user in.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req socialCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		Error(c, http.StatusBadRequest, "Authorization code is required")
		return
	}

	token, err := googleOauthConfig.Exchange(context.Background(), req.Code)
	if err != nil {
		logger.L.Warnf("Google token exchange failed: %v", err)
		Error(c, http.StatusBadRequest, "Google login failed")
		return
	}

	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := fetchJSON(googleUserInfoURL, token.AccessToken, &info); err != nil {
		logger.L.Warnf("Google userinfo fetch failed: %v", err)
		Error(c, http.StatusInternalServerError, "Failed to load Google profile")
		return
	}
	if !info.VerifiedEmail {
		Error(c, http.StatusBadRequest, "Google email is not verified")
		return
	}

	h.socialLogin(c, socialProfile{
		Email:        info.Email,
		Nickname:     info.Name,
		ProfileImage: info.Picture,
		Provider:     "google",
		SnsID:        info.ID,
	})
}

// NaverLogin handles the Naver authorization-code flow.
func (h *AuthHandler) NaverLogin(c *gin.Context) {
	var req socialCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		Error(c, http.StatusBadRequest, "Authorization code is required")
		return
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {os.Getenv("NAVER_CLIENT_ID")},
		"client_secret": {os.Getenv("NAVER_CLIENT_SECRET")},
		"code":          {req.Code},
		"state":         {req.State},
	}
	accessToken, err := exchangeCode(naverTokenURL, form)
	if err != nil {
		logger.L.Warnf("Naver token exchange failed: %v", err)
		Error(c, http.StatusBadRequest, "Naver login failed")
		return
	}

	var info struct {
		Response struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			Name         string `json:"name"`
			ProfileImage string `json:"profile_image"`
		} `json:"response"`
	}
	if err := fetchJSON(naverUserInfoURL, accessToken, &info); err != nil {
		logger.L.Warnf("Naver profile fetch failed: %v", err)
		Error(c, http.StatusInternalServerError, "Failed to load Naver profile")
		return
	}

	h.socialLogin(c, socialProfile{
		Email:        info.Response.Email,
		Nickname:     info.Response.Name,
		ProfileImage: info.Response.ProfileImage,
		Provider:     "naver",
		SnsID:        info.Response.ID,
	})
}

// KakaoLogin handles the Kakao authorization-code flow.
func (h *AuthHandler) KakaoLogin(c *gin.Context) {
	var req socialCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		Error(c, http.StatusBadRequest, "Authorization code is required")
		return
	}

	clientOrigin := os.Getenv("CLIENT_ORIGIN")
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {os.Getenv("KAKAO_CLIENT_ID")},
		"client_secret": {os.Getenv("KAKAO_CLIENT_SECRET")},
		"redirect_uri":  {clientOrigin + "/auth/kakao/callback"},
		"code":          {req.Code},
	}
	accessToken, err := exchangeCode(kakaoTokenURL, form)
	if err != nil {
		logger.L.Warnf("Kakao token exchange failed: %v", err)
		Error(c, http.StatusBadRequest, "Kakao login failed")
		return
	}

	var info struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := fetchJSON(kakaoUserInfoURL, accessToken, &info); err != nil {
		logger.L.Warnf("Kakao profile fetch failed: %v", err)
		Error(c, http.StatusInternalServerError, "Failed to load Kakao profile")
		return
	}

	h.socialLogin(c, socialProfile{
		Email:        info.KakaoAccount.Email,
		Nickname:     info.KakaoAccount.Profile.Nickname,
		ProfileImage: info.KakaoAccount.Profile.ProfileImageURL,
		Provider:     "kakao",
		SnsID:        fmt.Sprintf("%d", info.ID),
	})
}

// socialLogin provisions the account on first login and issues a token. An
// email already registered through a different provider is a conflict, not a
// silent merge.
func (h *AuthHandler) socialLogin(c *gin.Context, p socialProfile) {
	if p.Email == "" {
		Error(c, http.StatusBadRequest, "The provider did not share an email address")
		return
	}

	var user models.User
	err := db.DB.Where("email = ?", p.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email:        p.Email,
			Nickname:     p.Nickname,
			ProfileImage: p.ProfileImage,
			Provider:     p.Provider,
			SnsID:        p.SnsID,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			Error(c, http.StatusInternalServerError, "Social login failed")
			return
		}
	case err != nil:
		Error(c, http.StatusInternalServerError, "Social login failed")
		return
	case user.Provider != p.Provider:
		Error(c, http.StatusConflict,
			fmt.Sprintf("This email is already registered with %s. Please log in with %s.", user.Provider, user.Provider))
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": p.Provider + " login successful",
		"token":   token,
		"user":    user,
	})
}

// exchangeCode POSTs an authorization-code form and returns the access token.
func exchangeCode(tokenURL string, form url.Values) (string, error) {
	resp, err := oauthClient.Post(tokenURL, "application/x-www-form-urlencoded;charset=utf-8",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned %q", tokenResp.Error)
	}
	return tokenResp.AccessToken, nil
}

// fetchJSON GETs a provider endpoint with a bearer token.
func fetchJSON(endpoint, accessToken string, dest interface{}) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := oauthClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
