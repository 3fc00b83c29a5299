package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

const maxTagCreateAttempts = 3

type tagRepository struct {
	DB *gorm.DB
}

var _ domain.TagRepository = (*tagRepository)(nil)

func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{DB: db}
}

func toDomainTags(rows []model.Tag) []domain.Tag {
	res := make([]domain.Tag, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res
}

func (m *tagRepository) Fetch(ctx context.Context) ([]domain.Tag, error) {
	var rows []model.Tag
	if err := m.DB.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

func (m *tagRepository) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	var row model.Tag
	if err := m.DB.WithContext(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return domain.Tag{}, notFound(err)
	}
	return row.ToDomain(), nil
}

func (m *tagRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var rows []model.Tag
	if err := m.DB.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

func (m *tagRepository) ReplaceForArticle(ctx context.Context, articleID int64, names []string) (tags []domain.Tag, err error) {
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err = replaceTags(tx, articleID, names)
		return err
	})
	return
}

func (m *tagRepository) CountArticles(ctx context.Context, tagID int64) (int64, error) {
	var n int64
	err := m.DB.WithContext(ctx).
		Table("article_tags").
		Joins("JOIN article ON article.id = article_tags.article_id").
		Where("article_tags.tag_id = ? AND article.draft = ?", tagID, false).
		Count(&n).Error
	return n, err
}

// replaceTags swaps the article's tag set inside tx, creating unknown tags. The set
// is validated before anything is written.
func replaceTags(tx *gorm.DB, articleID int64, names []string) ([]domain.Tag, error) {
	names, err := domain.NormalizeTagNames(names)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Tag, 0, len(names))
	for _, name := range names {
		row, err := findOrCreateTag(tx, name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if err := tx.Where("article_id = ?", articleID).Delete(&model.ArticleTag{}).Error; err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		links := make([]model.ArticleTag, len(rows))
		for i := range rows {
			links[i] = model.ArticleTag{ArticleID: articleID, TagID: rows[i].ID}
		}
		if err := tx.Create(&links).Error; err != nil {
			return nil, err
		}
	}
	return toDomainTags(rows), nil
}

// findOrCreateTag returns the tag called name, creating it when missing. An insert
// that loses a race on the unique index is rolled back to its savepoint and the
// winner's row is read back with a locking read.
func findOrCreateTag(tx *gorm.DB, name string) (model.Tag, error) {
	var lastErr error
	for attempt := 0; attempt < maxTagCreateAttempts; attempt++ {
		q := tx
		if attempt > 0 {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row model.Tag
		err := q.Where("LOWER(name) = LOWER(?)", name).First(&row).Error
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Tag{}, err
		}

		s, err := uniqueSlug(tx, &model.Tag{}, name, 0)
		if err != nil {
			return model.Tag{}, err
		}
		row = model.Tag{Name: name, Slug: s}
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&row).Error
		})
		if err == nil {
			return row, nil
		}
		if !isDuplicateKey(err) {
			return model.Tag{}, err
		}
		// name taken by the winner, or only its slug: either way look again
		lastErr = err
	}
	return model.Tag{}, lastErr
}

// loadTags fills the tag set of every article in one query.
func loadTags(db *gorm.DB, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]int64, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}

	var rows []struct {
		ArticleID int64
		ID        int64
		Name      string
		Slug      string
	}
	err := db.Table("article_tags").
		Select("article_tags.article_id, tag.id, tag.name, tag.slug").
		Joins("JOIN tag ON tag.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", ids).
		Order("tag.name").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byArticle := make(map[int64][]domain.Tag, len(articles))
	for _, r := range rows {
		byArticle[r.ArticleID] = append(byArticle[r.ArticleID], domain.Tag{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	for i := range articles {
		articles[i].Tags = byArticle[articles[i].ID]
		if articles[i].Tags == nil {
			articles[i].Tags = []domain.Tag{}
		}
	}
	return nil
}
