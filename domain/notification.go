package domain

import (
	"context"
	"time"
)

type NotificationVerb string

const (
	VerbLiked        NotificationVerb = "liked"
	VerbSpecialLiked NotificationVerb = "special_liked"
	VerbCommented    NotificationVerb = "commented"
	VerbReplied      NotificationVerb = "replied"
	VerbFollowed     NotificationVerb = "followed"
)

// Notification tells Receiver that Actor did Verb, optionally on an article or comment.
type Notification struct {
	ID         int64
	ReceiverID int64
	ActorID    int64
	Verb       NotificationVerb
	ArticleID  int64
	CommentID  int64
	Read       bool
	CreatedAt  time.Time

	Actor *User
}

// NotificationSink receives engagement events. Notify never blocks the caller.
type NotificationSink interface {
	Notify(n Notification)
}

type NotificationRepository interface {
	StoreBatch(ctx context.Context, ns []Notification) error
	FetchByReceiver(ctx context.Context, receiverID int64, limit int64) ([]Notification, error)

	// MarkRead returns ErrNotFound when the notification doesn't belong to receiverID.
	MarkRead(ctx context.Context, receiverID, id int64) error
	MarkAllRead(ctx context.Context, receiverID int64) (int64, error)
}

type NotificationUsecase interface {
	Fetch(ctx context.Context, receiverID int64) ([]Notification, error)
	MarkRead(ctx context.Context, receiverID, id int64) error
	MarkAllRead(ctx context.Context, receiverID int64) (int64, error)
}
