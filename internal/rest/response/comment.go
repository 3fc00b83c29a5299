package response

import "github.com/Guyuepp/social-blog/domain"

type Comment struct {
	ID        int64      `json:"id"`
	Article   int64      `json:"article"`
	Parent    *int64     `json:"parent"`
	Body      string     `json:"body"`
	Score     int64      `json:"score"`
	User      *UserBrief `json:"user"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`

	// Replies 子评论列表
	Replies []*Comment `json:"replies"`
}

// Comment: Domain -> Response, replies included at any depth.
func (b *Builder) Comment(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
	res := &Comment{
		ID:        c.ID,
		Article:   c.ArticleID,
		Body:      c.Body.Text(),
		Score:     c.Score,
		User:      b.UserBrief(c.User),
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt: c.UpdatedAt.Format(DateTimeFormat),
		Replies:   b.Comments(c.Replies),
	}
	if c.ParentID != 0 {
		pid := c.ParentID
		res.Parent = &pid
	}
	return res
}

func (b *Builder) Comments(cs []*domain.Comment) []*Comment {
	res := make([]*Comment, 0, len(cs))
	for _, c := range cs {
		res = append(res, b.Comment(c))
	}
	return res
}
