package handlers_test

import (
	"net/http"
	"testing"

	"moim/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	r := setupServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing fields", map[string]any{"email": "a@b.com"}},
		{"bad email", map[string]any{"email": "not-an-email", "password": "abcd1234", "nickname": "tester"}},
		{"password too short", map[string]any{"email": "a@b.com", "password": "ab1", "nickname": "tester"}},
		{"password without digit", map[string]any{"email": "a@b.com", "password": "abcdefgh", "nickname": "tester"}},
		{"password without letter", map[string]any{"email": "a@b.com", "password": "12345678", "nickname": "tester"}},
		{"password with forbidden char", map[string]any{"email": "a@b.com", "password": "abcd 1234", "nickname": "tester"}},
		{"nickname too short", map[string]any{"email": "a@b.com", "password": "abcd1234", "nickname": "x"}},
		{"nickname with symbols", map[string]any{"email": "a@b.com", "password": "abcd1234", "nickname": "bad!name"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignupLoginFlow(t *testing.T) {
	r := setupServer(t)

	signup := map[string]any{
		"email":    "moim@example.com",
		"password": "abcd1234!",
		"nickname": "달리는모임",
	}
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email.
	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "moim@example.com", "password": "wrong1234",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown email.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "abcd1234!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "moim@example.com", "password": "abcd1234!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Nickname string `json:"nickname"`
		} `json:"user"`
	}
	decodeBody(t, w, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "달리는모임", login.User.Nickname)
	assert.NotContains(t, w.Body.String(), `"password"`)

	// The issued token works on a protected route.
	w = doJSON(t, r, http.MethodPost, "/api/posts", "Bearer "+login.Token, map[string]any{
		"title": "hello", "content": "world",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLoginRejectsSocialOnlyAccount(t *testing.T) {
	r := setupServer(t)
	user := seedUser(t, "socializer")
	user.Provider = "google"
	require.NoError(t, db.DB.Save(&user).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": user.Email, "password": "abcd1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "google")
}
