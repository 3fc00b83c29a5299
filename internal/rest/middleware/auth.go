package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/domain"
)

const (
	KeyUserID = "user_id"
	KeyClaims = "claims"
)

// Authenticator resolves a raw token into claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Claims, error)
}

// bearerToken 从 Authorization 头中取出 token，支持 Bearer 和 Token 两种前缀
func bearerToken(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 {
		return ""
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1]
	}
	return ""
}

func abortAuth(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindAuthentication {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": de.Message})
		return
	}
	logrus.Errorf("authenticate: %v", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"details": domain.ErrInternalServerError.Message})
}

// Auth 认证中间件，没有合法 token 时返回 401
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortAuth(c, domain.ErrUnauthorized)
			return
		}
		claims, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A presented but invalid token is still a 401.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(KeyUserID)
}

func ClaimsFrom(c *gin.Context) (domain.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return domain.Claims{}, false
	}
	claims, ok := v.(domain.Claims)
	return claims, ok
}

// RequireUser rejects requests that OptionalAuth left anonymous.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			abortAuth(c, domain.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
