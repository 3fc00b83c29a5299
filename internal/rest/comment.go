package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/request"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

type commentHandler struct {
	Service domain.CommentUsecase
	Builder *response.Builder
}

func NewCommentHandler(svc domain.CommentUsecase, b *response.Builder) *commentHandler {
	return &commentHandler{
		Service: svc,
		Builder: b,
	}
}

// paramID parses the :id path parameter; anything unparsable is a 404.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, domain.ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *commentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if !bindJSON(c, &req) {
		return
	}
	comment := req.ToDomain(middleware.UserID(c))

	if err := h.Service.Create(c.Request.Context(), &comment); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.Builder.Comment(&comment))
}

func (h *commentHandler) GetComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comment, err := h.Service.GetByID(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Comment(comment))
}

func (h *commentHandler) UpdateComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req request.CommentUpdate
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.Service.Update(c.Request.Context(), middleware.UserID(c), id, req.Body)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Comment(comment))
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FetchCommentsByArticle returns the threaded comment tree of an article.
func (h *commentHandler) FetchCommentsByArticle(c *gin.Context) {
	comments, err := h.Service.FetchByArticle(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Builder.Comments(comments))
}

func (h *commentHandler) Vote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req request.Vote
	if !bindOptionalJSON(c, &req) {
		return
	}
	if err := h.Service.Vote(c.Request.Context(), middleware.UserID(c), id, req.Downvote); err != nil {
		renderError(c, err)
		return
	}
	msg := "Upvoted comment."
	if req.Downvote {
		msg = "Downvoted comment."
	}
	c.JSON(http.StatusCreated, gin.H{"details": msg})
}

func (h *commentHandler) Unvote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Service.Unvote(c.Request.Context(), middleware.UserID(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
