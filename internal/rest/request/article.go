package request

import "github.com/Guyuepp/social-blog/domain"

type Article struct {
	Title   string   `json:"title" binding:"required,max=50"`
	Content string   `json:"content" binding:"required"`
	Draft   bool     `json:"draft"`
	Tags    []string `json:"tags" binding:"omitempty,dive,max=30"`
}

// ToDomain: Request -> Domain
func (r *Article) ToDomain(userID int64) domain.Article {
	return domain.Article{
		Title:   r.Title,
		Content: r.Content,
		Draft:   r.Draft,
		User:    domain.User{ID: userID},
	}
}

// ArticleUpdate is a PATCH body; absent fields stay unchanged.
type ArticleUpdate struct {
	Title   *string   `json:"title" binding:"omitempty,max=50"`
	Content *string   `json:"content"`
	Draft   *bool     `json:"draft"`
	Tags    *[]string `json:"tags" binding:"omitempty,dive,max=30"`
}

func (r *ArticleUpdate) ToDomain() domain.ArticleUpdate {
	return domain.ArticleUpdate{
		Title:   r.Title,
		Content: r.Content,
		Draft:   r.Draft,
		Tags:    r.Tags,
	}
}

type Like struct {
	SpecialLike bool `json:"special_like"`
}
