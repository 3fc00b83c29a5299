package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/media"
	"github.com/Guyuepp/social-blog/internal/render"
	"github.com/Guyuepp/social-blog/internal/repository"
	mysqlRepo "github.com/Guyuepp/social-blog/internal/repository/mysql"
	"github.com/Guyuepp/social-blog/internal/rest"
	"github.com/Guyuepp/social-blog/internal/usecase/article"
	"github.com/Guyuepp/social-blog/internal/usecase/comment"
	"github.com/Guyuepp/social-blog/internal/usecase/notification"
	"github.com/Guyuepp/social-blog/internal/usecase/tag"
	"github.com/Guyuepp/social-blog/internal/usecase/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var dbSeq atomic.Int64

type memBloom struct {
	mu  sync.Mutex
	ids map[int64]bool
}

func (b *memBloom) Add(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids[id] = true
	return nil
}

func (b *memBloom) BulkAdd(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		_ = b.Add(ctx, id)
	}
	return nil
}

func (b *memBloom) Exists(_ context.Context, id int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ids[id], nil
}

type memDenylist struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (d *memDenylist) Revoke(_ context.Context, id string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[id] = true
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ids[id], nil
}

// syncSink writes notifications straight through, so tests can read them back
// without waiting on the batching worker.
type syncSink struct {
	repo domain.NotificationRepository
}

func (s syncSink) Notify(n domain.Notification) {
	if n.ReceiverID == 0 || n.ReceiverID == n.ActorID {
		return
	}
	_ = s.repo.StoreBatch(context.Background(), []domain.Notification{n})
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := mysqlRepo.Open(mysqlRepo.Options{
		Driver: mysqlRepo.DriverSQLite,
		DSN:    fmt.Sprintf("file:resttest-%d?mode=memory&cache=shared", dbSeq.Add(1)),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := mysqlRepo.NewUserRepository(db)
	edgeRepo := mysqlRepo.NewEdgeRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	notificationRepo := mysqlRepo.NewNotificationRepository(db)
	articleRepo := repository.NewArticleRepository(mysqlRepo.NewArticleDBRepository(db), userRepo)

	bloom := &memBloom{ids: map[int64]bool{}}
	store := media.NewLocalStore(t.TempDir(), "/media/")
	sink := syncSink{repo: notificationRepo}

	commentSvc := comment.NewService(commentRepo, articleRepo, userRepo, edgeRepo, bloom, sink)
	articleSvc := article.NewService(articleRepo, edgeRepo, commentRepo, commentSvc, bloom, store, sink)
	userSvc := user.NewService(userRepo, edgeRepo, &memDenylist{ids: map[string]bool{}}, store, sink,
		[]byte("test-secret"), time.Hour).WithBcryptCost(bcrypt.MinCost)

	router := rest.NewRouter(rest.Services{
		Articles:      articleSvc,
		Comments:      commentSvc,
		Tags:          tag.NewService(mysqlRepo.NewTagRepository(db), edgeRepo),
		Users:         userSvc,
		Notifications: notification.NewService(notificationRepo, userRepo),
		Media:         store,
		Renderer:      render.NewMarkdown(),
	}, rest.RouterOptions{Timeout: 5 * time.Second})

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/register/", "", map[string]string{
		"username":  username,
		"email":     faker.Email(),
		"password":  "secret123",
		"password2": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]string](s.t, w)["key"]
}

func (s *testServer) createArticle(token string, body map[string]any) map[string]any {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/articles", token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](s.t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
