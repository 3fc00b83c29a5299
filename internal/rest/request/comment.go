package request

import "github.com/Guyuepp/social-blog/domain"

type Comment struct {
	Body    string `json:"body" binding:"required,max=300"`
	Article int64  `json:"article" binding:"required"`
	Parent  *int64 `json:"parent"`
}

// ToDomain: Request -> Domain
func (r *Comment) ToDomain(userID int64) domain.Comment {
	c := domain.Comment{
		ArticleID: r.Article,
		UserID:    userID,
		Body:      domain.ActiveBody(r.Body),
	}
	if r.Parent != nil {
		c.ParentID = *r.Parent
	}
	return c
}

type CommentUpdate struct {
	Body string `json:"body" binding:"required,max=300"`
}

type Vote struct {
	Downvote bool `json:"downvote"`
}
