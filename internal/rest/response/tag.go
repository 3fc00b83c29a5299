package response

import "github.com/Guyuepp/social-blog/domain"

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TagDetail struct {
	Tag
	ArticlesCount  int64 `json:"articles_count"`
	FollowersCount int64 `json:"followers_count"`
}

func NewTagFromDomain(t *domain.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func NewTagsFromDomain(ts []domain.Tag) []Tag {
	res := make([]Tag, len(ts))
	for i := range ts {
		res[i] = NewTagFromDomain(&ts[i])
	}
	return res
}

func NewTagDetailFromDomain(t *domain.Tag) TagDetail {
	return TagDetail{
		Tag:            NewTagFromDomain(t),
		ArticlesCount:  t.ArticlesCount,
		FollowersCount: t.FollowersCount,
	}
}
