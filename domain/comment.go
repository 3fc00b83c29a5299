package domain

import (
	"context"
	"time"
)

// DeletedCommentBody is what a deleted comment shows in place of its text.
const DeletedCommentBody = "deleted"

// MaxCommentLength is the longest accepted comment body, in runes.
const MaxCommentLength = 300

// CommentBody is either Active with its text or Deleted. A deleted comment keeps
// its row so its replies stay attached.
type CommentBody struct {
	text    string
	deleted bool
}

func ActiveBody(text string) CommentBody {
	return CommentBody{text: text}
}

func DeletedBody() CommentBody {
	return CommentBody{deleted: true}
}

func (b CommentBody) IsDeleted() bool {
	return b.deleted
}

// Text returns the body as shown to readers.
func (b CommentBody) Text() string {
	if b.deleted {
		return DeletedCommentBody
	}
	return b.text
}

// Comment domain model
type Comment struct {
	ID        int64
	ArticleID int64
	UserID    int64
	ParentID  int64 // 0 for top level comments
	Body      CommentBody
	Score     int64 // upvotes - downvotes, computed on read
	CreatedAt time.Time
	UpdatedAt time.Time

	// User 评论作者信息
	User *User
	// Replies 子评论列表
	Replies []*Comment
}

// CommentVote is one user's up or down vote on a comment.
type CommentVote struct {
	UserID    int64
	CommentID int64
	Downvote  bool
}

// BuildCommentTree nests flat comments under their parents. Input order is kept
// among siblings. Comments whose parent is absent become roots.
func BuildCommentTree(flat []*Comment) []*Comment {
	byID := make(map[int64]*Comment, len(flat))
	for _, c := range flat {
		c.Replies = []*Comment{}
		byID[c.ID] = c
	}
	roots := make([]*Comment, 0, len(flat))
	for _, c := range flat {
		if parent, ok := byID[c.ParentID]; ok && c.ParentID != 0 && c.ParentID != c.ID {
			parent.Replies = append(parent.Replies, c)
			continue
		}
		roots = append(roots, c)
	}
	return roots
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	Store(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)

	// FetchByArticle returns every comment of the article, oldest first, scores filled.
	FetchByArticle(ctx context.Context, articleID int64) ([]*Comment, error)

	UpdateBody(ctx context.Context, id int64, body CommentBody) error

	// CountByArticles counts comments (deleted ones included) per article.
	CountByArticles(ctx context.Context, articleIDs []int64) (map[int64]int64, error)

	// Scores returns upvotes - downvotes per comment; comments without votes score 0.
	Scores(ctx context.Context, commentIDs []int64) (map[int64]int64, error)
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64, viewerID int64) (*Comment, error)
	Update(ctx context.Context, actorID, id int64, body string) (*Comment, error)
	Delete(ctx context.Context, actorID, id int64) error
	FetchByArticle(ctx context.Context, slug string, viewerID int64) ([]*Comment, error)
	// FetchTree builds the threaded comments of an article the caller already checked.
	FetchTree(ctx context.Context, articleID int64) ([]*Comment, error)
	Vote(ctx context.Context, actorID, id int64, downvote bool) error
	Unvote(ctx context.Context, actorID, id int64) error
}
