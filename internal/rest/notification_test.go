package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationBody struct {
	ID    int64  `json:"id"`
	Verb  string `json:"verb"`
	Read  bool   `json:"read"`
	Actor struct {
		Username string `json:"username"`
	} `json:"actor"`
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	art := s.createArticle(alice, map[string]any{"title": "Noticed", "content": "body"})

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/articles/noticed/like", bob, nil).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/users/alice/follow", bob, nil).Code)
	w := s.do(http.MethodPost, "/api/comments", alice, map[string]any{"body": "own comment", "article": art["id"]})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ns := decode[[]notificationBody](t, w)
	require.Len(t, ns, 2)
	verbs := []string{ns[0].Verb, ns[1].Verb}
	assert.ElementsMatch(t, []string{"liked", "followed"}, verbs)
	assert.Equal(t, "bob", ns[0].Actor.Username)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", ns[0].ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", ns[0].ID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/notifications/read", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/notifications", alice, nil)
	for _, n := range decode[[]notificationBody](t, w) {
		assert.True(t, n.Read)
	}

	w = s.do(http.MethodGet, "/api/notifications", bob, nil)
	assert.Empty(t, decode[[]notificationBody](t, w))
}

func TestTags(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	s.createArticle(alice, map[string]any{"title": "One", "content": "body", "tags": []string{"Go Lang"}})
	s.createArticle(alice, map[string]any{"title": "Two", "content": "body", "tags": []string{"go lang"}, "draft": true})

	w := s.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]map[string]any](t, w)
	require.Len(t, tags, 1)
	assert.Equal(t, "go-lang", tags[0]["slug"])

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/tags/go-lang/follow", bob, nil).Code)
	w = s.do(http.MethodPost, "/api/tags/go-lang/follow", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"details":"Already following."}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/tags/go-lang", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, detail["articles_count"])
	assert.EqualValues(t, 1, detail["followers_count"])

	w = s.do(http.MethodGet, "/api/tags/followed", bob, nil)
	assert.Len(t, decode[[]any](t, w), 1)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/tags/go-lang/follow", bob, nil).Code)
	w = s.do(http.MethodDelete, "/api/tags/go-lang/follow", bob, nil)
	assert.JSONEq(t, `{"details":"You're not following that tag."}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/tags/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
