package model

import "github.com/Guyuepp/social-blog/domain"

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(30);uniqueIndex;not null"`
	Slug string `gorm:"type:varchar(191);uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tag"
}

func (m *Tag) ToDomain() domain.Tag {
	return domain.Tag{
		ID:   m.ID,
		Name: m.Name,
		Slug: m.Slug,
	}
}

// ArticleTag links an article to one of its tags.
type ArticleTag struct {
	ArticleID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID     int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
