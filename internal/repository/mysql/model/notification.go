package model

import (
	"time"

	"github.com/Guyuepp/social-blog/domain"
)

type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ReceiverID int64     `gorm:"column:receiver_id;not null;index"`
	ActorID    int64     `gorm:"column:actor_id;not null"`
	Verb       string    `gorm:"type:varchar(20);not null"`
	ArticleID  int64     `gorm:"column:article_id;not null;default:0;index"`
	CommentID  int64     `gorm:"column:comment_id;not null;default:0"`
	IsRead     bool      `gorm:"column:is_read;not null"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Notification) TableName() string {
	return "notification"
}

func NewNotificationFromDomain(n *domain.Notification) Notification {
	return Notification{
		ID:         n.ID,
		ReceiverID: n.ReceiverID,
		ActorID:    n.ActorID,
		Verb:       string(n.Verb),
		ArticleID:  n.ArticleID,
		CommentID:  n.CommentID,
		IsRead:     n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

func (m *Notification) ToDomain() domain.Notification {
	return domain.Notification{
		ID:         m.ID,
		ReceiverID: m.ReceiverID,
		ActorID:    m.ActorID,
		Verb:       domain.NotificationVerb(m.Verb),
		ArticleID:  m.ArticleID,
		CommentID:  m.CommentID,
		Read:       m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}
