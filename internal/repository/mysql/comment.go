package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	row := model.NewCommentFromDomain(comment)
	if err := c.DB.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	comment.UpdatedAt = row.UpdatedAt
	return nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var row model.Comment
	if err := c.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	res := row.ToDomain()
	scores, err := c.Scores(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	res.Score = scores[id]
	return &res, nil
}

func (c *commentRepository) FetchByArticle(ctx context.Context, articleID int64) ([]*domain.Comment, error) {
	var rows []model.Comment
	err := c.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]*domain.Comment, len(rows))
	ids := make([]int64, len(rows))
	for i := range rows {
		cm := rows[i].ToDomain()
		res[i] = &cm
		ids[i] = cm.ID
	}

	scores, err := c.Scores(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, cm := range res {
		cm.Score = scores[cm.ID]
	}
	return res, nil
}

func (c *commentRepository) UpdateBody(ctx context.Context, id int64, body domain.CommentBody) error {
	result := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"body":       body.Text(),
			"deleted":    body.IsDeleted(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) CountByArticles(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return res, nil
	}
	var rows []struct {
		ArticleID int64
		N         int64
	}
	err := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Select("article_id, COUNT(*) AS n").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range articleIDs {
		res[id] = 0
	}
	for _, r := range rows {
		res[r.ArticleID] = r.N
	}
	return res, nil
}

func (c *commentRepository) Scores(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return res, nil
	}
	var rows []struct {
		CommentID int64
		Score     int64
	}
	err := c.DB.WithContext(ctx).
		Model(&model.CommentVote{}).
		Select("comment_id, SUM(CASE WHEN downvote THEN -1 ELSE 1 END) AS score").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range commentIDs {
		res[id] = 0
	}
	for _, r := range rows {
		res[r.CommentID] = r.Score
	}
	return res, nil
}
