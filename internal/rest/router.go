package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/rest/middleware"
	"github.com/Guyuepp/social-blog/internal/rest/response"
)

// Services are the usecases the router dispatches to.
type Services struct {
	Articles      domain.ArticleUsecase
	Comments      domain.CommentUsecase
	Tags          domain.TagUsecase
	Users         domain.UserUsecase
	Notifications domain.NotificationUsecase
	Media         domain.MediaStore
	Renderer      response.HTMLRenderer
}

type RouterOptions struct {
	Timeout     time.Duration
	CORSOrigins []string
	MediaURL    string
	MediaRoot   string
}

// NewRouter registers every route on a fresh engine.
func NewRouter(s Services, opts RouterOptions) *gin.Engine {
	registerValidators()

	route := gin.New()
	route.Use(gin.Recovery(), middleware.Logger(), middleware.CORS(opts.CORSOrigins))
	if opts.Timeout > 0 {
		route.Use(middleware.SetRequestContextWithTimeout(opts.Timeout))
	}
	if opts.MediaRoot != "" && opts.MediaURL != "" {
		route.Static(opts.MediaURL, opts.MediaRoot)
	}

	builder := response.NewBuilder(s.Media, s.Renderer)
	articleHandler := NewArticleHandler(s.Articles, builder)
	commentHandler := NewCommentHandler(s.Comments, builder)
	tagHandler := NewTagHandler(s.Tags)
	userHandler := NewUserHandler(s.Users, builder)
	notificationHandler := NewNotificationHandler(s.Notifications, builder)

	authRequired := middleware.Auth(s.Users)
	optional := middleware.OptionalAuth(s.Users)
	required := middleware.RequireUser()

	auth := route.Group("/auth")
	{
		auth.POST("/register/", userHandler.Register)
		auth.POST("/login/", userHandler.Login)
		auth.POST("/logout/", authRequired, userHandler.Logout)
		auth.POST("/password/change/", authRequired, userHandler.ChangePassword)
		auth.GET("/user/", authRequired, userHandler.Account)
		auth.PATCH("/user/", authRequired, userHandler.UpdateAccount)
	}

	api := route.Group("/api")
	api.Use(optional)
	{
		api.GET("/articles", articleHandler.FetchArticle)
		api.POST("/articles", required, articleHandler.Store)
		api.GET("/articles/feed", required, articleHandler.Feed)
		api.GET("/articles/drafts", required, articleHandler.Drafts)
		api.GET("/articles/saved", required, articleHandler.Saved)
		api.GET("/articles/:slug", articleHandler.GetBySlug)
		api.PATCH("/articles/:slug", required, articleHandler.Update)
		api.DELETE("/articles/:slug", required, articleHandler.Delete)
		api.PUT("/articles/:slug/thumbnail", required, articleHandler.SetThumbnail)
		api.POST("/articles/:slug/like", required, articleHandler.Like)
		api.DELETE("/articles/:slug/like", required, articleHandler.Unlike)
		api.POST("/articles/:slug/save", required, articleHandler.Save)
		api.DELETE("/articles/:slug/save", required, articleHandler.Unsave)
		api.GET("/articles/:slug/comments", commentHandler.FetchCommentsByArticle)

		api.POST("/comments", required, commentHandler.CreateComment)
		api.GET("/comments/:id", commentHandler.GetComment)
		api.PATCH("/comments/:id", required, commentHandler.UpdateComment)
		api.DELETE("/comments/:id", required, commentHandler.DeleteComment)
		api.POST("/comments/:id/vote", required, commentHandler.Vote)
		api.DELETE("/comments/:id/vote", required, commentHandler.Unvote)

		api.GET("/tags", tagHandler.Fetch)
		api.GET("/tags/followed", required, tagHandler.Followed)
		api.GET("/tags/:slug", tagHandler.GetBySlug)
		api.POST("/tags/:slug/follow", required, tagHandler.Follow)
		api.DELETE("/tags/:slug/follow", required, tagHandler.Unfollow)

		api.GET("/users", userHandler.Fetch)
		api.DELETE("/users/delete", required, userHandler.Delete)
		api.PATCH("/users/profile", required, userHandler.UpdateProfile)
		api.GET("/users/:slug", userHandler.Profile)
		api.POST("/users/:slug/follow", required, userHandler.Follow)
		api.DELETE("/users/:slug/follow", required, userHandler.Unfollow)

		api.GET("/notifications", required, notificationHandler.Fetch)
		api.POST("/notifications/read", required, notificationHandler.MarkAllRead)
		api.PATCH("/notifications/:id/read", required, notificationHandler.MarkRead)
	}

	return route
}
