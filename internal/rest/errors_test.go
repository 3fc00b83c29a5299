package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/social-blog/domain"
)

func TestRenderError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, `{"detail":"Not found."}`},
		{"unauthenticated", domain.ErrUnauthorized, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"forbidden", domain.NewPermissionError("Can't like your own post."), http.StatusForbidden, `{"details":"Can't like your own post."}`},
		{"duplicate", domain.NewDuplicateStateError("Can't like twice."), http.StatusBadRequest, `{"details":"Can't like twice."}`},
		{"missing", domain.NewMissingStateError("You haven't liked this article."), http.StatusBadRequest, `{"details":"You haven't liked this article."}`},
		{"fields", domain.NewFieldError("parent", "bad"), http.StatusBadRequest, `{"parent":["bad"]}`},
		{"internal", errors.New("db is down"), http.StatusInternalServerError, `{"details":"Internal server error."}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			renderError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
}

func TestBindingErrorFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registerValidators()

	type payload struct {
		Title string   `json:"title" binding:"required,max=5"`
		Tags  []string `json:"tags" binding:"omitempty,dive,max=3"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"too long title","tags":["ok","toolong"]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	assert.False(t, bindJSON(c, &p))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"title":["Ensure this field has no more than 5 characters."],
		"tags":["Ensure this field has no more than 3 characters."]
	}`, w.Body.String())
}

func TestBindingErrorMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p struct {
		Title string `json:"title"`
	}
	assert.False(t, bindJSON(c, &p))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "details")
}
