package response

import "github.com/Guyuepp/social-blog/domain"

type Article struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	Draft     bool       `json:"draft"`
	Thumbnail string     `json:"thumbnail"`
	User      *UserBrief `json:"user"`
	Tags      []Tag      `json:"tags"`
	UpdatedAt string     `json:"updated_at"`
	CreatedAt string     `json:"created_at"`
}

type ArticleDetail struct {
	Article
	ContentHTML       string     `json:"content_html"`
	LikesCount        int64      `json:"likes_count"`
	SpecialLikesCount int64      `json:"special_likes_count"`
	SavedCount        int64      `json:"saved_count"`
	CommentsCount     int64      `json:"comments_count"`
	Comments          []*Comment `json:"comments"`
}

// Article: Domain -> Response
func (b *Builder) Article(a *domain.Article) Article {
	return Article{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Content:   a.Content,
		Draft:     a.Draft,
		Thumbnail: b.mediaURL(a.Thumbnail),
		User:      b.UserBrief(&a.User),
		Tags:      NewTagsFromDomain(a.Tags),
		UpdatedAt: a.UpdatedAt.Format(DateTimeFormat),
		CreatedAt: a.CreatedAt.Format(DateTimeFormat),
	}
}

func (b *Builder) Articles(as []domain.Article) []Article {
	res := make([]Article, len(as))
	for i := range as {
		res[i] = b.Article(&as[i])
	}
	return res
}

func (b *Builder) ArticleDetail(a *domain.Article) ArticleDetail {
	d := ArticleDetail{
		Article:           b.Article(a),
		LikesCount:        a.Stats.Likes,
		SpecialLikesCount: a.Stats.SpecialLikes,
		SavedCount:        a.Stats.Saves,
		CommentsCount:     a.Stats.Comments,
		Comments:          b.Comments(a.Comments),
	}
	if b.renderer != nil {
		d.ContentHTML = b.renderer.HTML(a.Content)
	}
	return d
}
