package repository

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/social-blog/domain"
)

// articleRepository 协调层，在数据库结果上补全作者信息
type articleRepository struct {
	db        domain.ArticleDBRepository
	userRepo  domain.UserRepository
	loadGroup singleflight.Group
}

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository 创建协调层repository
func NewArticleRepository(db domain.ArticleDBRepository, userRepo domain.UserRepository) *articleRepository {
	return &articleRepository{
		db:       db,
		userRepo: userRepo,
	}
}

// Fetch 获取文章列表
func (r *articleRepository) Fetch(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, string, error) {
	articles, next, err := r.db.Fetch(ctx, f)
	if err != nil {
		return nil, "", err
	}
	articles, err = r.fillUserDetails(ctx, articles)
	if err != nil {
		return nil, "", err
	}
	return articles, next, nil
}

func (r *articleRepository) FetchDrafts(ctx context.Context, userID int64) ([]domain.Article, error) {
	articles, err := r.db.FetchDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.fillUserDetails(ctx, articles)
}

// GetByIDs 批量获取文章
func (r *articleRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Article, error) {
	articles, err := r.db.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return r.fillUserDetails(ctx, articles)
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (domain.Article, error) {
	article, err := r.db.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}
	return r.fillUser(ctx, article)
}

// GetBySlug 根据slug获取文章，同一slug的并发请求只查一次库
// 共享查询不随首个调用方取消，每个调用方只等待自己的ctx
func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	shared := context.WithoutCancel(ctx)
	ch := r.loadGroup.DoChan("article:"+slug, func() (any, error) {
		article, err := r.db.GetBySlug(shared, slug)
		if err != nil {
			return nil, err
		}
		return r.fillUser(shared, article)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.Article{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return domain.Article{}, res.Err
	}

	// Callers mutate what they get back; hand each one its own tag slice.
	article := res.Val.(domain.Article)
	article.Tags = append([]domain.Tag(nil), article.Tags...)
	return article, nil
}

// Store 先解析作者再写库，作者查询失败时不留下已提交的文章
func (r *articleRepository) Store(ctx context.Context, a *domain.Article, tags []string) error {
	author, err := r.userRepo.GetByID(ctx, a.User.ID)
	if err != nil {
		return err
	}
	if err := r.db.Store(ctx, a, tags); err != nil {
		return err
	}
	a.User = author
	return nil
}

func (r *articleRepository) Update(ctx context.Context, a *domain.Article, tags *[]string) error {
	return r.db.Update(ctx, a, tags)
}

func (r *articleRepository) SetThumbnail(ctx context.Context, id int64, ref string) error {
	return r.db.SetThumbnail(ctx, id, ref)
}

// Delete 删除文章
func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Delete(ctx, id)
}

// FetchIDs 获取文章ID列表
func (r *articleRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

func (r *articleRepository) fillUser(ctx context.Context, a domain.Article) (domain.Article, error) {
	user, err := r.userRepo.GetByID(ctx, a.User.ID)
	if err != nil {
		return domain.Article{}, err
	}
	a.User = user
	return a, nil
}

// fillUserDetails 批量填充用户详细信息
func (r *articleRepository) fillUserDetails(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if len(articles) == 0 {
		return articles, nil
	}

	// 收集所有不重复的UserID
	userIDs := make([]int64, 0, len(articles))
	existMap := make(map[int64]bool)
	for _, item := range articles {
		if !existMap[item.User.ID] {
			userIDs = append(userIDs, item.User.ID)
			existMap[item.User.ID] = true
		}
	}

	users, err := r.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	for i := range articles {
		if u, ok := userMap[articles[i].User.ID]; ok {
			articles[i].User = u
		}
	}

	return articles, nil
}
