package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reactionResponse struct {
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
	IsLiked       bool  `json:"is_liked"`
	IsDisliked    bool  `json:"is_disliked"`
}

func TestReactionToggle(t *testing.T) {
	r := setupServer(t)
	user := seedUser(t, "voter")
	post := seedPost(t, user, "votable")
	auth := bearer(t, user.ID)
	likeURL := "/api/posts/" + itoa(post.ID) + "/like"
	dislikeURL := "/api/posts/" + itoa(post.ID) + "/dislike"

	var resp reactionResponse

	w := doJSON(t, r, http.MethodPut, likeURL, auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, reactionResponse{LikesCount: 1, IsLiked: true}, resp)

	// Same reaction again cancels it.
	w = doJSON(t, r, http.MethodPut, likeURL, auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, reactionResponse{}, resp)

	// Opposite reaction swaps sides.
	w = doJSON(t, r, http.MethodPut, likeURL, auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPut, dislikeURL, auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, reactionResponse{DislikesCount: 1, IsDisliked: true}, resp)
}

func TestReactionCountsPerUser(t *testing.T) {
	r := setupServer(t)
	author := seedUser(t, "author")
	fan := seedUser(t, "fan")
	critic := seedUser(t, "critic")
	post := seedPost(t, author, "divisive")
	likeURL := "/api/posts/" + itoa(post.ID) + "/like"
	dislikeURL := "/api/posts/" + itoa(post.ID) + "/dislike"

	w := doJSON(t, r, http.MethodPut, likeURL, bearer(t, fan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp reactionResponse
	w = doJSON(t, r, http.MethodPut, dislikeURL, bearer(t, critic.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(1), resp.LikesCount)
	assert.Equal(t, int64(1), resp.DislikesCount)
	assert.False(t, resp.IsLiked)
	assert.True(t, resp.IsDisliked)
}

func TestReactionUnknownPost(t *testing.T) {
	r := setupServer(t)
	user := seedUser(t, "voter")

	w := doJSON(t, r, http.MethodPut, "/api/posts/999/like", bearer(t, user.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/posts/999/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
