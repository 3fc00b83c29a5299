package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

type TagHandler struct {
	Service domain.TagUsecase
}

func NewTagHandler(svc domain.TagUsecase) *TagHandler {
	return &TagHandler{Service: svc}
}

func (h *TagHandler) Fetch(c *gin.Context) {
	tags, err := h.Service.Fetch(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewTagsFromDomain(tags))
}

func (h *TagHandler) GetBySlug(c *gin.Context) {
	tag, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewTagDetailFromDomain(&tag))
}

func (h *TagHandler) Followed(c *gin.Context) {
	tags, err := h.Service.Followed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewTagsFromDomain(tags))
}

func (h *TagHandler) Follow(c *gin.Context) {
	if err := h.Service.Follow(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"details": "Follow successful."})
}

func (h *TagHandler) Unfollow(c *gin.Context) {
	if err := h.Service.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
