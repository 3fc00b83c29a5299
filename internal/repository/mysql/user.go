package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) getOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return domain.User{}, notFound(err)
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getOne(ctx, "id = ?", id)
}

func (m *userRepository) GetBySlug(ctx context.Context, slug string) (domain.User, error) {
	return m.getOne(ctx, "slug = ?", slug)
}

func (m *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getOne(ctx, "username = ?", username)
}

func (m *userRepository) GetByIDs(ctx context.Context, uids []int64) ([]domain.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id IN ?", uids).Find(&users).Error
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, err
}

func (m *userRepository) ExistsUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	var n int64
	q := m.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (m *userRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (m *userRepository) Fetch(ctx context.Context) ([]domain.User, error) {
	var users []model.User
	if err := m.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}

func (m *userRepository) Insert(ctx context.Context, u *domain.User) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userModel := model.NewUserFromDomain(u)
		s, err := uniqueSlug(tx, &model.User{}, u.Username, 0)
		if err != nil {
			return err
		}
		userModel.Slug = s

		if err := tx.Create(userModel).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.NewValidationError("user with this username or email already exists.")
			}
			return err
		}

		u.ID = userModel.ID
		u.Slug = userModel.Slug
		u.CreatedAt = userModel.CreatedAt
		u.UpdatedAt = userModel.UpdatedAt
		return nil
	})
}

func (m *userRepository) Update(ctx context.Context, u *domain.User) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.User
		if err := tx.First(&current, "id = ?", u.ID).Error; err != nil {
			return notFound(err)
		}

		userModel := model.NewUserFromDomain(u)
		userModel.Slug = current.Slug
		if current.Username != u.Username {
			s, err := uniqueSlug(tx, &model.User{}, u.Username, u.ID)
			if err != nil {
				return err
			}
			userModel.Slug = s
		}
		userModel.UpdatedAt = time.Now()

		// Select writes zero values too, e.g. a cleared description.
		err := tx.Model(&model.User{ID: u.ID}).
			Select("username", "email", "password", "slug", "display_name", "description", "avatar", "updated_at").
			Updates(userModel).Error
		if err != nil {
			if isDuplicateKey(err) {
				return domain.NewFieldError("username", "A user with that username already exists.")
			}
			return err
		}

		u.Slug = userModel.Slug
		u.UpdatedAt = userModel.UpdatedAt
		return nil
	})
}

// Delete removes the user with their articles, comments, edges and notifications.
// Replies other users wrote under the user's comments become top level comments.
func (m *userRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var articleIDs []int64
		if err := tx.Model(&model.Article{}).Where("user_id = ?", id).Pluck("id", &articleIDs).Error; err != nil {
			return err
		}
		if _, err := deleteArticles(tx, articleIDs); err != nil {
			return err
		}

		var commentIDs []int64
		if err := tx.Model(&model.Comment{}).Where("user_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", commentIDs).
				Update("parent_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.CommentVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}

		cleanups := []struct {
			mdl   any
			query string
			args  []any
		}{
			{&model.CommentVote{}, "user_id = ?", []any{id}},
			{&model.ArticleLike{}, "user_id = ?", []any{id}},
			{&model.SavedArticle{}, "user_id = ?", []any{id}},
			{&model.TagFollower{}, "user_id = ?", []any{id}},
			{&model.UserFollowing{}, "follower_id = ? OR followed_id = ?", []any{id, id}},
			{&model.Notification{}, "receiver_id = ? OR actor_id = ?", []any{id, id}},
		}
		for _, c := range cleanups {
			if err := tx.Where(c.query, c.args...).Delete(c.mdl).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
