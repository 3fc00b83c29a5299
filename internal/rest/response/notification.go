package response

import "github.com/Guyuepp/social-blog/domain"

type Notification struct {
	ID        int64      `json:"id"`
	Verb      string     `json:"verb"`
	Actor     *UserBrief `json:"actor"`
	ArticleID *int64     `json:"article"`
	CommentID *int64     `json:"comment"`
	Read      bool       `json:"read"`
	CreatedAt string     `json:"created_at"`
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (b *Builder) Notifications(ns []domain.Notification) []Notification {
	res := make([]Notification, len(ns))
	for i := range ns {
		n := &ns[i]
		res[i] = Notification{
			ID:        n.ID,
			Verb:      string(n.Verb),
			Actor:     b.UserBrief(n.Actor),
			ArticleID: optionalID(n.ArticleID),
			CommentID: optionalID(n.CommentID),
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(DateTimeFormat),
		}
	}
	return res
}
