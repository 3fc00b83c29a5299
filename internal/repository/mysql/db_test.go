package mysql

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/social-blog/domain"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory sqlite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:socialblog-%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) domain.User {
	t.Helper()
	u := domain.User{
		Username: "u" + faker.Username(),
		Email:    faker.Email(),
		Password: "hash",
	}
	require.NoError(t, NewUserRepository(db).Insert(context.Background(), &u))
	return u
}

func seedArticle(t *testing.T, db *gorm.DB, owner domain.User, draft bool, tags ...string) domain.Article {
	t.Helper()
	a := domain.Article{
		Title:   faker.Sentence(),
		Content: faker.Paragraph(),
		Draft:   draft,
		User:    domain.User{ID: owner.ID},
	}
	if len(a.Title) > 50 {
		a.Title = a.Title[:50]
	}
	require.NoError(t, NewArticleDBRepository(db).Store(context.Background(), &a, tags))
	return a
}
