package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (domain.Claims, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Claims), args.Error(1)
}

var errInvalid = &domain.Error{Kind: domain.KindAuthentication, Message: "Invalid token."}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.UserID(c)})
	})
	r.GET("/", handlers...)
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").Return(domain.Claims{UserID: 7}, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(domain.Claims{}, errInvalid)
	auth.On("Authenticate", mock.Anything, "broken").Return(domain.Claims{}, errors.New("redis down"))
	r := newEngine(middleware.Auth(auth))

	w := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, w.Body.String())

	w = serve(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, h := range []string{"Bearer good", "Token good", "bearer good"} {
		w = serve(r, h)
		assert.Equal(t, http.StatusOK, w.Code, h)
		assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	}

	w = serve(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token."}`, w.Body.String())

	w = serve(r, "Bearer broken")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").Return(domain.Claims{UserID: 3}, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(domain.Claims{}, errInvalid)

	r := newEngine(middleware.OptionalAuth(auth))
	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = serve(r, "Bearer good")
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())

	w = serve(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = newEngine(middleware.OptionalAuth(auth), middleware.RequireUser())
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "Bearer good").Code)
}
