package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/social-blog/domain"
)

type recordingRepo struct {
	domain.NotificationRepository
	mu      sync.Mutex
	batches [][]domain.Notification
	err     error
}

func (r *recordingRepo) StoreBatch(_ context.Context, ns []domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]domain.Notification(nil), ns...))
	return r.err
}

func (r *recordingRepo) stored() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.Notification
	for _, b := range r.batches {
		res = append(res, b...)
	}
	return res
}

func TestNotifyWorkerFlushesOnShutdown(t *testing.T) {
	repo := &recordingRepo{}
	w := NewNotifyWorker(repo, 16)
	w.interval = time.Hour

	w.Notify(domain.Notification{ReceiverID: 1, ActorID: 2, Verb: domain.VerbLiked})
	w.Notify(domain.Notification{ReceiverID: 3, ActorID: 3, Verb: domain.VerbLiked}) // self
	w.Notify(domain.Notification{ReceiverID: 4, ActorID: 2, Verb: domain.VerbFollowed})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	got := repo.stored()
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, got[0].ReceiverID)
	assert.EqualValues(t, 4, got[1].ReceiverID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestNotifyWorkerFlushesOnTick(t *testing.T) {
	repo := &recordingRepo{}
	w := NewNotifyWorker(repo, 16)
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Notify(domain.Notification{ReceiverID: 1, ActorID: 2, Verb: domain.VerbCommented})
	assert.Eventually(t, func() bool { return len(repo.stored()) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestNotifyWorkerDropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	w := NewNotifyWorker(repo, 2)

	for i := range 5 {
		w.Notify(domain.Notification{ReceiverID: int64(i + 1), ActorID: 99, Verb: domain.VerbLiked})
	}
	assert.Len(t, w.ch, 2)
}

func TestNotifyWorkerSurvivesStoreErrors(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db down")}
	w := NewNotifyWorker(repo, 4)
	w.Notify(domain.Notification{ReceiverID: 1, ActorID: 2, Verb: domain.VerbLiked})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	cancel()
	<-w.Done()

	assert.Len(t, repo.batches, 1)
}
