package model

import "time"

// ArticleLike is unique per (user, article, special_like): one ordinary and one
// special like may coexist for the same pair.
type ArticleLike struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_article_like_unique"`
	ArticleID   int64     `gorm:"column:article_id;not null;uniqueIndex:idx_article_like_unique;index"`
	SpecialLike bool      `gorm:"column:special_like;not null;uniqueIndex:idx_article_like_unique"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (ArticleLike) TableName() string {
	return "article_likes"
}

type SavedArticle struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_saved_article_unique"`
	ArticleID int64     `gorm:"column:article_id;not null;uniqueIndex:idx_saved_article_unique;index"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (SavedArticle) TableName() string {
	return "saved_articles"
}

type UserFollowing struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	FollowerID int64     `gorm:"column:follower_id;not null;uniqueIndex:idx_user_following_unique"`
	FollowedID int64     `gorm:"column:followed_id;not null;uniqueIndex:idx_user_following_unique;index"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (UserFollowing) TableName() string {
	return "user_followings"
}

type TagFollower struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_tag_follower_unique"`
	TagID     int64     `gorm:"column:tag_id;not null;uniqueIndex:idx_tag_follower_unique;index"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (TagFollower) TableName() string {
	return "tag_followers"
}

// CommentVote is unique per (user, comment); Downvote is the vote's payload.
type CommentVote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_comment_vote_unique"`
	CommentID int64     `gorm:"column:comment_id;not null;uniqueIndex:idx_comment_vote_unique;index"`
	Downvote  bool      `gorm:"column:downvote;not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
