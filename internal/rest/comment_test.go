package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentBody struct {
	ID      int64          `json:"id"`
	Article int64          `json:"article"`
	Parent  *int64         `json:"parent"`
	Body    string         `json:"body"`
	Score   int64          `json:"score"`
	Replies []*commentBody `json:"replies"`
}

func TestCommentThread(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	first := s.createArticle(alice, map[string]any{"title": "Discussed", "content": "body"})
	other := s.createArticle(alice, map[string]any{"title": "Elsewhere", "content": "body"})
	articleID := int64(first["id"].(float64))

	w := s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "top", "article": articleID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	top := decode[commentBody](t, w)
	assert.Nil(t, top.Parent)

	w = s.do(http.MethodPost, "/api/comments", alice, map[string]any{"body": "reply", "article": articleID, "parent": top.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reply := decode[commentBody](t, w)
	require.NotNil(t, reply.Parent)
	assert.Equal(t, top.ID, *reply.Parent)

	w = s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "wrong place", "article": other["id"], "parent": top.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"non_field_errors":["Parent comment must have the same article id"]}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "orphan", "article": articleID, "parent": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"parent":["Invalid pk \"9999\" - object does not exist."]}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "lost", "article": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/articles/discussed/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decode[[]*commentBody](t, w)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "reply", tree[0].Replies[0].Body)
}

func TestCommentSoftDelete(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	art := s.createArticle(alice, map[string]any{"title": "Thread", "content": "body"})

	w := s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "parent", "article": art["id"]})
	parent := decode[commentBody](t, w)
	w = s.do(http.MethodPost, "/api/comments", alice, map[string]any{"body": "child", "article": art["id"], "parent": parent.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/comments/%d", parent.ID)
	w = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPatch, path, bob, map[string]string{"body": "revived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"details":"Can't edit a deleted comment."}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/articles/thread", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		CommentsCount int64          `json:"comments_count"`
		Comments      []*commentBody `json:"comments"`
	}](t, w)
	assert.EqualValues(t, 2, detail.CommentsCount)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "deleted", detail.Comments[0].Body)
	require.Len(t, detail.Comments[0].Replies, 1)
	assert.Equal(t, "child", detail.Comments[0].Replies[0].Body)
}

func TestCommentEdit(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	art := s.createArticle(alice, map[string]any{"title": "Editable", "content": "body"})

	w := s.do(http.MethodPost, "/api/comments", bob, map[string]any{"body": "typo", "article": art["id"]})
	c := decode[commentBody](t, w)
	path := fmt.Sprintf("/api/comments/%d", c.ID)

	w = s.do(http.MethodPatch, path, alice, map[string]string{"body": "not mine"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, path, bob, map[string]string{"body": "fixed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fixed", decode[commentBody](t, w).Body)

	w = s.do(http.MethodGet, "/api/comments/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentVoting(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	art := s.createArticle(alice, map[string]any{"title": "Votes", "content": "body"})

	w := s.do(http.MethodPost, "/api/comments", alice, map[string]any{"body": "vote on me", "article": art["id"]})
	c := decode[commentBody](t, w)
	assert.Zero(t, c.Score)
	votePath := fmt.Sprintf("/api/comments/%d/vote", c.ID)

	w = s.do(http.MethodPost, votePath, bob, map[string]bool{"downvote": false})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"details":"Upvoted comment."}`, w.Body.String())

	w = s.do(http.MethodPost, votePath, bob, map[string]bool{"downvote": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"details":"You have already voted on this comment."}`, w.Body.String())

	w = s.do(http.MethodPost, votePath, carol, map[string]bool{"downvote": true})
	assert.JSONEq(t, `{"details":"Downvoted comment."}`, w.Body.String())
	w = s.do(http.MethodPost, votePath, alice, map[string]bool{"downvote": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/comments/%d", c.ID), "", nil)
	assert.EqualValues(t, -1, decode[commentBody](t, w).Score)

	w = s.do(http.MethodDelete, votePath, carol, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, votePath, carol, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"details":"You haven't voted on this comment."}`, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/api/comments/%d", c.ID), "", nil)
	assert.EqualValues(t, 0, decode[commentBody](t, w).Score)
}
