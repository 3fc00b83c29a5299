package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/request"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

// ArticleHandler  represent the httphandler for article
type ArticleHandler struct {
	Service domain.ArticleUsecase
	Builder *response.Builder
}

func NewArticleHandler(svc domain.ArticleUsecase, b *response.Builder) *ArticleHandler {
	return &ArticleHandler{
		Service: svc,
		Builder: b,
	}
}

// pageNum reads ?num=; out of range values are clamped by the store.
func pageNum(c *gin.Context) int64 {
	num, err := strconv.ParseInt(c.Query("num"), 10, 64)
	if err != nil {
		return 0
	}
	return num
}

// FetchArticle will fetch the articles based on given params
func (a *ArticleHandler) FetchArticle(c *gin.Context) {
	listAr, nextCursor, err := a.Service.Fetch(c.Request.Context(), domain.ArticleFilter{
		Cursor:     c.Query("cursor"),
		Num:        pageNum(c),
		TagSlug:    c.Query("tag"),
		AuthorSlug: c.Query("author"),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.Header("X-Cursor", nextCursor)
	c.JSON(http.StatusOK, a.Builder.Articles(listAr))
}

// Feed lists articles by followed users or followed tags.
func (a *ArticleHandler) Feed(c *gin.Context) {
	listAr, nextCursor, err := a.Service.Feed(c.Request.Context(), middleware.UserID(c), c.Query("cursor"), pageNum(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Header("X-Cursor", nextCursor)
	c.JSON(http.StatusOK, a.Builder.Articles(listAr))
}

func (a *ArticleHandler) Drafts(c *gin.Context) {
	listAr, err := a.Service.FetchDrafts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Builder.Articles(listAr))
}

func (a *ArticleHandler) Saved(c *gin.Context) {
	listAr, err := a.Service.FetchSaved(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Builder.Articles(listAr))
}

// GetBySlug will get article by given slug
func (a *ArticleHandler) GetBySlug(c *gin.Context) {
	art, err := a.Service.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Builder.ArticleDetail(&art))
}

// Store will store the article by given request body
func (a *ArticleHandler) Store(c *gin.Context) {
	var req request.Article
	if !bindJSON(c, &req) {
		return
	}
	uid := middleware.UserID(c)
	article := req.ToDomain(uid)

	ctx := c.Request.Context()
	if err := a.Service.Store(ctx, &article, req.Tags); err != nil {
		renderError(c, err)
		return
	}
	created, err := a.Service.GetBySlug(ctx, article.Slug, uid)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a.Builder.ArticleDetail(&created))
}

func (a *ArticleHandler) Update(c *gin.Context) {
	var req request.ArticleUpdate
	if !bindJSON(c, &req) {
		return
	}
	art, err := a.Service.Update(c.Request.Context(), middleware.UserID(c), c.Param("slug"), req.ToDomain())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Builder.Article(&art))
}

// Delete will delete the article by given param
func (a *ArticleHandler) Delete(c *gin.Context) {
	if err := a.Service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetThumbnail replaces the thumbnail with the multipart file "thumbnail".
func (a *ArticleHandler) SetThumbnail(c *gin.Context) {
	fh, err := c.FormFile("thumbnail")
	if err != nil {
		renderError(c, domain.NewFieldError("thumbnail", "No file was submitted."))
		return
	}
	f, err := fh.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer f.Close()

	art, err := a.Service.SetThumbnail(c.Request.Context(), middleware.UserID(c), c.Param("slug"), fh.Filename, f)
	if err != nil {
		renderError(c, asFieldError("thumbnail", err))
		return
	}
	c.JSON(http.StatusOK, a.Builder.Article(&art))
}

// Like adds a like or special like
func (a *ArticleHandler) Like(c *gin.Context) {
	var req request.Like
	if !bindOptionalJSON(c, &req) {
		return
	}
	if err := a.Service.Like(c.Request.Context(), middleware.UserID(c), c.Param("slug"), req.SpecialLike); err != nil {
		renderError(c, err)
		return
	}
	msg := "Liked article."
	if req.SpecialLike {
		msg = "Superliked article."
	}
	c.JSON(http.StatusCreated, gin.H{"details": msg})
}

// Unlike removes a like or special like
func (a *ArticleHandler) Unlike(c *gin.Context) {
	var req request.Like
	if !bindOptionalJSON(c, &req) {
		return
	}
	if err := a.Service.Unlike(c.Request.Context(), middleware.UserID(c), c.Param("slug"), req.SpecialLike); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *ArticleHandler) Save(c *gin.Context) {
	if err := a.Service.Save(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"details": "Saved article."})
}

func (a *ArticleHandler) Unsave(c *gin.Context) {
	if err := a.Service.Unsave(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// asFieldError attaches a bare validation message to field, so upload
// failures are reported against the form field that carried the file.
func asFieldError(field string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindValidation && len(de.Fields) == 0 {
		return domain.NewFieldError(field, de.Message)
	}
	return err
}
