package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"moim/internal/db"
	"moim/internal/middleware"
	"moim/internal/models"
	"moim/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupServer wires a full API server against a fresh in-memory database.
// Handlers read the shared db.DB, so it must be swapped before the routes are
// registered.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb

	r := gin.New()
	store := cookie.NewStore([]byte("test_session_secret"))
	r.Use(sessions.Sessions("moim_session", store))
	router.RegisterRoutes(r)
	return r
}

func seedUser(t *testing.T, nickname string) models.User {
	t.Helper()
	user := models.User{
		Email:    nickname + "@example.com",
		Nickname: nickname,
		Provider: "local",
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, author models.User, title string) models.Post {
	t.Helper()
	post := models.Post{
		Title:   title,
		Content: "content of " + title,
		Author:  models.Author{ID: author.ID, Nickname: author.Nickname},
	}
	require.NoError(t, db.DB.Create(&post).Error)
	return post
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	token, err := middleware.GenerateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON fires a request with an optional JSON body and auth header and
// returns the recorder.
func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}
