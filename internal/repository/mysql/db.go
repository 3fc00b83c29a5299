package mysql

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/social-blog/internal/repository/mysql/model"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options describes how to reach the database.
type Options struct {
	Driver        string
	DSN           string
	MaxRetry      int
	RetryInterval time.Duration
	LogQueries    bool
}

// Open connects with retries and migrates the schema. Duplicate key errors are
// translated to gorm.ErrDuplicatedKey by the dialect.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverMySQL, "":
		dialector = gormmysql.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if opts.LogQueries {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	retries := max(opts.MaxRetry, 1)
	var (
		db  *gorm.DB
		err error
	)
	for i := range retries {
		db, err = gorm.Open(dialector, cfg)
		if err == nil {
			err = ping(db)
			if err == nil {
				break
			}
		}
		logrus.Warnf("failed to connect to database (attempt %d/%d): %v", i+1, retries, err)
		if i+1 < retries {
			time.Sleep(opts.RetryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after %d attempts: %w", retries, err)
	}

	if opts.Driver == DriverSQLite {
		// sqlite allows one writer at a time.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
