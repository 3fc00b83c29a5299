package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/domain"
)

// statusOf maps an error kind to its HTTP status.
func statusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindPermission:
		return http.StatusForbidden
	case domain.KindValidation, domain.KindDuplicateState, domain.KindMissingState:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes err as the response body and aborts the chain.
func renderError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		logrus.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"details": domain.ErrInternalServerError.Message})
		return
	}

	status := statusOf(de.Kind)
	switch {
	case len(de.Fields) > 0:
		c.AbortWithStatusJSON(status, de.Fields)
	case de.Kind == domain.KindAuthentication || de.Kind == domain.KindNotFound:
		c.AbortWithStatusJSON(status, gin.H{"detail": de.Message})
	default:
		c.AbortWithStatusJSON(status, gin.H{"details": de.Message})
	}
}
