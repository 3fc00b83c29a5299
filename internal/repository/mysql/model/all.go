package model

// All lists every table model, in AutoMigrate order.
func All() []any {
	return []any{
		&User{},
		&Article{},
		&Tag{},
		&ArticleTag{},
		&ArticleLike{},
		&SavedArticle{},
		&UserFollowing{},
		&TagFollower{},
		&Comment{},
		&CommentVote{},
		&Notification{},
	}
}
