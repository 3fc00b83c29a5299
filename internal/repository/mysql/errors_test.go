package mysql

import (
	"context"
	"errors"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/social-blog/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: saved_articles.user_id")))
	assert.False(t, isDuplicateKey(&mysqldriver.MySQLError{Number: 1045}))
	assert.False(t, isDuplicateKey(nil))
}

// A racing insert that slipped past the count hits the unique index.
func TestEdgeInsertLostRaceOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEdgeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `article_likes`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2-0' for key 'idx_article_like_unique'"})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), domain.Edge{Kind: domain.EdgeArticleLike, ActorID: 1, TargetID: 2})
	assert.ErrorIs(t, err, domain.ErrEdgeExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEdgeRemoveMissingOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEdgeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `saved_articles`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Remove(context.Background(), domain.Edge{Kind: domain.EdgeArticleSave, ActorID: 1, TargetID: 2})
	assert.ErrorIs(t, err, domain.ErrEdgeMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotFoundTranslation(t *testing.T) {
	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound), domain.ErrNotFound)
	other := errors.New("boom")
	assert.Equal(t, other, notFound(other))
}

// Another request created the same tag between the lookup and the insert.
func TestTagCreateLostRaceOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tag` WHERE LOWER\\(name\\) = LOWER\\(\\?\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `tag`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `tag`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'Rust' for key 'idx_tag_name'"})
	mock.ExpectExec("ROLLBACK TO SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `tag` WHERE LOWER\\(name\\) = LOWER\\(\\?\\).* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(5, "Rust", "rust"))
	mock.ExpectExec("DELETE FROM `article_tags`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `article_tags`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.ReplaceForArticle(context.Background(), 9, []string{"Rust"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, "rust", got[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}
