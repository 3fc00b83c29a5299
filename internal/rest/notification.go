package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

type NotificationHandler struct {
	Service domain.NotificationUsecase
	Builder *response.Builder
}

func NewNotificationHandler(svc domain.NotificationUsecase, b *response.Builder) *NotificationHandler {
	return &NotificationHandler{Service: svc, Builder: b}
}

func (h *NotificationHandler) Fetch(c *gin.Context) {
	ns, err := h.Service.Fetch(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Notifications(ns))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Service.MarkRead(c.Request.Context(), middleware.UserID(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"details": "Marked as read."})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.Service.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"details": "Marked all as read.", "count": n})
}
