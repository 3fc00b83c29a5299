package mysql

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

type articleRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.ArticleDBRepository = (*articleRepository)(nil)

// NewArticleDBRepository 创建数据库操作层
func NewArticleDBRepository(db *gorm.DB) *articleRepository {
	return &articleRepository{db}
}

func (m *articleRepository) toDomain(db *gorm.DB, rows []model.Article) ([]domain.Article, error) {
	res := make([]domain.Article, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	if err := loadTags(db, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *articleRepository) Fetch(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, string, error) {
	db := m.DB.WithContext(ctx)
	q := db.Model(&model.Article{}).Where("draft = ?", false)

	if f.Cursor != "" {
		lastID, err := repository.DecodeCursor(f.Cursor)
		if err != nil {
			return nil, "", domain.ErrBadParamInput
		}
		q = q.Where("id < ?", lastID)
	}
	if f.TagSlug != "" {
		q = q.Where("id IN (?)", db.Table("article_tags").
			Select("article_tags.article_id").
			Joins("JOIN tag ON tag.id = article_tags.tag_id").
			Where("tag.slug = ?", f.TagSlug))
	}
	if f.AuthorSlug != "" {
		q = q.Where("user_id IN (?)", db.Model(&model.User{}).Select("id").Where("slug = ?", f.AuthorSlug))
	}
	if f.Feed {
		var (
			parts []string
			args  []any
		)
		if len(f.AuthorIDs) > 0 {
			parts = append(parts, "user_id IN ?")
			args = append(args, f.AuthorIDs)
		}
		if len(f.TagIDs) > 0 {
			parts = append(parts, "id IN (SELECT article_id FROM article_tags WHERE tag_id IN ?)")
			args = append(args, f.TagIDs)
		}
		if len(parts) == 0 {
			return []domain.Article{}, "", nil
		}
		q = q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	num := f.Num
	repository.PageVerify(&num)

	var rows []model.Article
	// One extra row tells whether another page exists.
	if err := q.Order("id DESC").Limit(int(num) + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	var next string
	if int64(len(rows)) > num {
		rows = rows[:num]
		next = repository.EncodeCursor(rows[len(rows)-1].ID)
	}

	res, err := m.toDomain(db, rows)
	if err != nil {
		return nil, "", err
	}
	return res, next, nil
}

func (m *articleRepository) FetchDrafts(ctx context.Context, userID int64) ([]domain.Article, error) {
	db := m.DB.WithContext(ctx)
	var rows []model.Article
	err := db.Where("user_id = ? AND draft = ?", userID, true).Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return m.toDomain(db, rows)
}

func (m *articleRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Article, error) {
	if len(ids) == 0 {
		return []domain.Article{}, nil
	}
	db := m.DB.WithContext(ctx)
	var rows []model.Article
	if err := db.Where("id IN ? AND draft = ?", ids, false).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Article, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	ordered := make([]model.Article, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return m.toDomain(db, ordered)
}

func (m *articleRepository) getOne(ctx context.Context, query string, arg any) (domain.Article, error) {
	db := m.DB.WithContext(ctx)
	var row model.Article
	if err := db.Where(query, arg).First(&row).Error; err != nil {
		return domain.Article{}, notFound(err)
	}
	res, err := m.toDomain(db, []model.Article{row})
	if err != nil {
		return domain.Article{}, err
	}
	return res[0], nil
}

func (m *articleRepository) GetByID(ctx context.Context, id int64) (domain.Article, error) {
	return m.getOne(ctx, "id = ?", id)
}

func (m *articleRepository) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	return m.getOne(ctx, "slug = ?", slug)
}

func (m *articleRepository) Store(ctx context.Context, a *domain.Article, tags []string) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := uniqueSlug(tx, &model.Article{}, a.Title, 0)
		if err != nil {
			return err
		}
		a.Slug = s

		articleModel := model.NewArticleFromDomain(a)
		if err := tx.Create(articleModel).Error; err != nil {
			return err
		}
		a.ID = articleModel.ID
		a.CreatedAt = articleModel.CreatedAt
		a.UpdatedAt = articleModel.UpdatedAt

		a.Tags, err = replaceTags(tx, a.ID, tags)
		return err
	})
}

func (m *articleRepository) Update(ctx context.Context, a *domain.Article, tags *[]string) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Article
		if err := tx.First(&current, "id = ?", a.ID).Error; err != nil {
			return notFound(err)
		}

		a.Slug = current.Slug
		if current.Title != a.Title {
			s, err := uniqueSlug(tx, &model.Article{}, a.Title, a.ID)
			if err != nil {
				return err
			}
			a.Slug = s
		}
		a.UpdatedAt = time.Now()

		// Select so that draft=false is written.
		err := tx.Model(&model.Article{ID: a.ID}).
			Select("title", "content", "slug", "draft", "updated_at").
			Updates(model.NewArticleFromDomain(a)).Error
		if err != nil {
			return err
		}

		if tags != nil {
			a.Tags, err = replaceTags(tx, a.ID, *tags)
			return err
		}
		return nil
	})
}

func (m *articleRepository) SetThumbnail(ctx context.Context, id int64, ref string) error {
	result := m.DB.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).Update("thumbnail", ref)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteArticles(tx, []int64{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (m *articleRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return
}

// deleteArticles removes the articles and everything hanging off them inside tx.
// It returns the number of article rows removed.
func deleteArticles(tx *gorm.DB, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	commentIDs := tx.Model(&model.Comment{}).Select("id").Where("article_id IN ?", ids)
	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentVote{}).Error; err != nil {
		return 0, err
	}

	for _, mdl := range []any{
		&model.Comment{},
		&model.ArticleLike{},
		&model.SavedArticle{},
		&model.ArticleTag{},
		&model.Notification{},
	} {
		if err := tx.Where("article_id IN ?", ids).Delete(mdl).Error; err != nil {
			return 0, err
		}
	}

	result := tx.Where("id IN ?", ids).Delete(&model.Article{})
	return result.RowsAffected, result.Error
}
