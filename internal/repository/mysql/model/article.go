package model

import (
	"time"

	"github.com/Guyuepp/social-blog/domain"
)

type Article struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:varchar(50);not null"`
	Content   string    `gorm:"type:longtext;not null"`
	Slug      string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	Draft     bool      `gorm:"not null;index"`
	Thumbnail string    `gorm:"type:varchar(255)"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	UpdatedAt time.Time `gorm:"type:datetime"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Article) TableName() string {
	return "article"
}

func (m *Article) ToDomain() domain.Article {
	return domain.Article{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Slug:      m.Slug,
		Draft:     m.Draft,
		Thumbnail: m.Thumbnail,
		UpdatedAt: m.UpdatedAt,
		CreatedAt: m.CreatedAt,
		User: domain.User{
			ID: m.UserID,
		},
	}
}

func NewArticleFromDomain(a *domain.Article) *Article {
	return &Article{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Slug:      a.Slug,
		Draft:     a.Draft,
		Thumbnail: a.Thumbnail,
		UserID:    a.User.ID,
		UpdatedAt: a.UpdatedAt,
		CreatedAt: a.CreatedAt,
	}
}
