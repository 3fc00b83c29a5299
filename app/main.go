package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/internal/config"
	"github.com/Guyuepp/social-blog/internal/media"
	"github.com/Guyuepp/social-blog/internal/render"
	"github.com/Guyuepp/social-blog/internal/repository"
	mysqlRepo "github.com/Guyuepp/social-blog/internal/repository/mysql"
	myRedis "github.com/Guyuepp/social-blog/internal/repository/redis"
	"github.com/Guyuepp/social-blog/internal/rest"
	"github.com/Guyuepp/social-blog/internal/usecase/article"
	"github.com/Guyuepp/social-blog/internal/usecase/comment"
	"github.com/Guyuepp/social-blog/internal/usecase/notification"
	"github.com/Guyuepp/social-blog/internal/usecase/tag"
	"github.com/Guyuepp/social-blog/internal/usecase/user"
	"github.com/Guyuepp/social-blog/internal/workers"
)

const (
	shutdownTimeout    = 5 * time.Second
	workerDrainTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	cfg.ConfigureLogging()
	gin.SetMode(gin.ReleaseMode)

	// prepare database
	db, err := mysqlRepo.Open(mysqlRepo.Options{
		Driver:        cfg.DatabaseDriver,
		DSN:           cfg.DatabaseDSN,
		MaxRetry:      cfg.DBMaxRetry,
		RetryInterval: cfg.DBRetryDelay,
	})
	if err != nil {
		logrus.Fatalf("could not connect to database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	// prepare redis
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheAddr,
		Password: cfg.CachePass,
		DB:       cfg.CacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the redis connection: %v", err)
		}
	}()
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to open connection to redis: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	edgeRepo := mysqlRepo.NewEdgeRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	tagRepo := mysqlRepo.NewTagRepository(db)
	notificationRepo := mysqlRepo.NewNotificationRepository(db)
	// DB层 + 协调层，协调层负责补全作者信息
	articleRepo := repository.NewArticleRepository(mysqlRepo.NewArticleDBRepository(db), userRepo)

	bloomRepo := myRedis.NewArticleBloomFilter(client, cfg.BloomBitSize)
	tokenRepo := myRedis.NewTokenDenylist(client)
	mediaStore := media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)

	// Start worker
	notifier := workers.NewNotifyWorker(notificationRepo, cfg.NotifyBuffer)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go notifier.Start(workerCtx)

	// Build service Layer
	commentSvc := comment.NewService(commentRepo, articleRepo, userRepo, edgeRepo, bloomRepo, notifier)
	articleSvc := article.NewService(articleRepo, edgeRepo, commentRepo, commentSvc, bloomRepo, mediaStore, notifier)
	userSvc := user.NewService(userRepo, edgeRepo, tokenRepo, mediaStore, notifier, cfg.JWTSecret, cfg.JWTTTL)
	tagSvc := tag.NewService(tagRepo, edgeRepo)
	notificationSvc := notification.NewService(notificationRepo, userRepo)

	// Prepare bloom filter
	if err := articleSvc.InitBloomFilter(ctx); err != nil {
		logrus.Errorf("failed to init bloom filter: %v", err)
		stopWorker()
		return
	}

	route := rest.NewRouter(rest.Services{
		Articles:      articleSvc,
		Comments:      commentSvc,
		Tags:          tagSvc,
		Users:         userSvc,
		Notifications: notificationSvc,
		Media:         mediaStore,
		Renderer:      render.NewMarkdown(),
	}, rest.RouterOptions{
		Timeout:     cfg.ContextTimeout,
		CORSOrigins: cfg.CORSOrigins,
		MediaURL:    cfg.MediaURL,
		MediaRoot:   cfg.MediaRoot,
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Waiting for worker to flush notifications...")
	stopWorker()
	select {
	case <-notifier.Done():
	case <-time.After(workerDrainTimeout):
		logrus.Warn("notify worker did not finish in time")
	}

	logrus.Info("Server exiting")
}
