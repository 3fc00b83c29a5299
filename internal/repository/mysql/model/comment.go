package model

import (
	"time"

	"github.com/Guyuepp/social-blog/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ArticleID int64     `gorm:"column:article_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ParentID  *int64    `gorm:"column:parent_id;index"`
	Body      string    `gorm:"type:varchar(300);not null"`
	Deleted   bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	m := &Comment{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		UserID:    c.UserID,
		Body:      c.Body.Text(),
		Deleted:   c.Body.IsDeleted(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ParentID != 0 {
		pid := c.ParentID
		m.ParentID = &pid
	}
	return m
}

func (m *Comment) ToDomain() domain.Comment {
	c := domain.Comment{
		ID:        m.ID,
		ArticleID: m.ArticleID,
		UserID:    m.UserID,
		Body:      domain.ActiveBody(m.Body),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Deleted {
		c.Body = domain.DeletedBody()
	}
	if m.ParentID != nil {
		c.ParentID = *m.ParentID
	}
	return c
}
