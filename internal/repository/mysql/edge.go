package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

// edgeTable maps one edge kind onto its table.
type edgeTable struct {
	actor  string
	target string
	scope  map[string]any // extra predicates shared by every query of the kind
	empty  func() any
	row    func(e domain.Edge) any
}

var edgeTables = map[domain.EdgeKind]edgeTable{
	domain.EdgeArticleLike: {
		actor:  "user_id",
		target: "article_id",
		scope:  map[string]any{"special_like": false},
		empty:  func() any { return &model.ArticleLike{} },
		row: func(e domain.Edge) any {
			return &model.ArticleLike{UserID: e.ActorID, ArticleID: e.TargetID}
		},
	},
	domain.EdgeArticleSpecialLike: {
		actor:  "user_id",
		target: "article_id",
		scope:  map[string]any{"special_like": true},
		empty:  func() any { return &model.ArticleLike{} },
		row: func(e domain.Edge) any {
			return &model.ArticleLike{UserID: e.ActorID, ArticleID: e.TargetID, SpecialLike: true}
		},
	},
	domain.EdgeArticleSave: {
		actor:  "user_id",
		target: "article_id",
		empty:  func() any { return &model.SavedArticle{} },
		row: func(e domain.Edge) any {
			return &model.SavedArticle{UserID: e.ActorID, ArticleID: e.TargetID}
		},
	},
	domain.EdgeUserFollow: {
		actor:  "follower_id",
		target: "followed_id",
		empty:  func() any { return &model.UserFollowing{} },
		row: func(e domain.Edge) any {
			return &model.UserFollowing{FollowerID: e.ActorID, FollowedID: e.TargetID}
		},
	},
	domain.EdgeTagFollow: {
		actor:  "user_id",
		target: "tag_id",
		empty:  func() any { return &model.TagFollower{} },
		row: func(e domain.Edge) any {
			return &model.TagFollower{UserID: e.ActorID, TagID: e.TargetID}
		},
	},
	domain.EdgeCommentVote: {
		actor:  "user_id",
		target: "comment_id",
		empty:  func() any { return &model.CommentVote{} },
		row: func(e domain.Edge) any {
			return &model.CommentVote{UserID: e.ActorID, CommentID: e.TargetID, Downvote: e.Flag}
		},
	},
}

func lookupEdgeTable(kind domain.EdgeKind) (edgeTable, error) {
	t, ok := edgeTables[kind]
	if !ok {
		return edgeTable{}, fmt.Errorf("unknown edge kind %q", kind)
	}
	return t, nil
}

func (t edgeTable) query(db *gorm.DB) *gorm.DB {
	q := db.Model(t.empty())
	if len(t.scope) > 0 {
		q = q.Where(t.scope)
	}
	return q
}

func (t edgeTable) pair(db *gorm.DB, e domain.Edge) *gorm.DB {
	return t.query(db).Where(t.actor+" = ? AND "+t.target+" = ?", e.ActorID, e.TargetID)
}

type edgeRepository struct {
	DB *gorm.DB
}

var _ domain.EdgeRepository = (*edgeRepository)(nil)

func NewEdgeRepository(db *gorm.DB) *edgeRepository {
	return &edgeRepository{DB: db}
}

func (m *edgeRepository) Insert(ctx context.Context, e domain.Edge) error {
	t, err := lookupEdgeTable(e.Kind)
	if err != nil {
		return err
	}
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := t.pair(tx, e).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrEdgeExists
		}
		// The unique index settles races the count could not see.
		if err := tx.Create(t.row(e)).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrEdgeExists
			}
			return err
		}
		return nil
	})
}

func (m *edgeRepository) Remove(ctx context.Context, e domain.Edge) error {
	t, err := lookupEdgeTable(e.Kind)
	if err != nil {
		return err
	}
	db := m.DB.WithContext(ctx)
	result := t.pair(db, e).Delete(t.empty())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEdgeMissing
	}
	return nil
}

func (m *edgeRepository) Exists(ctx context.Context, e domain.Edge) (bool, error) {
	t, err := lookupEdgeTable(e.Kind)
	if err != nil {
		return false, err
	}
	var n int64
	err = t.pair(m.DB.WithContext(ctx), e).Count(&n).Error
	return n > 0, err
}

func (m *edgeRepository) CountByTarget(ctx context.Context, kind domain.EdgeKind, targetID int64) (int64, error) {
	t, err := lookupEdgeTable(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = t.query(m.DB.WithContext(ctx)).Where(t.target+" = ?", targetID).Count(&n).Error
	return n, err
}

func (m *edgeRepository) CountByTargets(ctx context.Context, kind domain.EdgeKind, targetIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return res, nil
	}
	t, err := lookupEdgeTable(kind)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		TargetID int64
		N        int64
	}
	err = t.query(m.DB.WithContext(ctx)).
		Select(t.target+" AS target_id, COUNT(*) AS n").
		Where(t.target+" IN ?", targetIDs).
		Group(t.target).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range targetIDs {
		res[id] = 0
	}
	for _, r := range rows {
		res[r.TargetID] = r.N
	}
	return res, nil
}

func (m *edgeRepository) ListTargets(ctx context.Context, kind domain.EdgeKind, actorID int64) ([]int64, error) {
	t, err := lookupEdgeTable(kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	err = t.query(m.DB.WithContext(ctx)).
		Where(t.actor+" = ?", actorID).
		Order("id DESC").
		Pluck(t.target, &ids).Error
	return ids, err
}

func (m *edgeRepository) ListActors(ctx context.Context, kind domain.EdgeKind, targetID int64) ([]int64, error) {
	t, err := lookupEdgeTable(kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	err = t.query(m.DB.WithContext(ctx)).
		Where(t.target+" = ?", targetID).
		Order("id DESC").
		Pluck(t.actor, &ids).Error
	return ids, err
}
